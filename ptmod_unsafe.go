package ptmod

import (
	"unsafe"

	"github.com/quasilyte/ptmod/internal/moddb"
)

// bytesAsInt8 reinterprets the PCM bytes without copying them.
func bytesAsInt8(b []byte) []int8 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*int8)(unsafe.Pointer(&b[0])), len(b))
}

// moduleSize approximates the memory owned by the loaded module.
// Sample data is not included: it belongs to the caller's image.
func moduleSize(m *module) uint {
	memoryUsage := len(m.samples) * int(unsafe.Sizeof(sample{}))
	for _, p := range m.patterns {
		memoryUsage += len(p) * int(unsafe.Sizeof(moddb.Cell(0)))
	}
	return uint(memoryUsage)
}
