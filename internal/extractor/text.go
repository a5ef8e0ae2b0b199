package extractor

import (
	"bytes"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func extractText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	return strings.TrimSpace(strings.ToValidUTF8(string(data), "�")), nil
}
