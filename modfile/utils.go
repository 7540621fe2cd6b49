package modfile

import (
	"bytes"
	"strings"
)

func convertCstring(data []byte) string {
	i := bytes.IndexByte(data, 0)
	if i == -1 {
		return strings.TrimRight(string(data), " ")
	}
	return strings.TrimRight(string(data[:i]), " ")
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
