package ptmod

// mix renders len(buf)/2 frames; must be called with mu held.
func (p *Player) mix(buf []int16) {
	// This function dominates the playback execution time.
	// Keep the per-channel part of the loop as small as possible.

	lowpass := p.settings.lowpass
	crossfeed := p.settings.crossfeed
	stereo := p.settings.stereo
	prevLeft := p.prevLeft
	prevRight := p.prevRight

	for i := 0; i < len(buf); i += 2 {
		left := int32(0)
		right := int32(0)

		for j := range p.channels {
			ch := &p.channels[j]
			if !ch.IsActive() {
				continue
			}

			v := int32(ch.data[ch.pos.index()]) * ch.volume / volumeScale
			if isLeftChannel(j) {
				left += v
			} else {
				right += v
			}

			if ch.advance() {
				p.emit(PlayerEvent{Kind: EventVoiceEnd, Channel: j})
			}
		}

		rawLeft := left
		rawRight := right

		if lowpass {
			left = (left + prevLeft) / 2
			right = (right + prevRight) / 2
		}

		if !stereo {
			mono := (left + right) / 2
			left = mono
			right = mono
		} else if crossfeed {
			left += right / 2
			right += left / 2
		}

		buf[i] = clampSample(left)
		buf[i+1] = clampSample(right)

		prevLeft = rawLeft
		prevRight = rawRight
		p.framesRendered++
	}

	p.prevLeft = prevLeft
	p.prevRight = prevRight
}

// volumeScale maps the 0..64 sample volume to a 0..4 gain.
const volumeScale = 16

// isLeftChannel implements the Amiga LRRL hard panning.
// Channels 0 and 3 (modulo 4) go left, 1 and 2 go right.
func isLeftChannel(i int) bool {
	switch i % 4 {
	case 0, 3:
		return true
	default:
		return false
	}
}
