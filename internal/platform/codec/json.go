package codec

import (
	"io"

	sonic "github.com/bytedance/sonic"
)

// Numbers are decoded as json.Number so integer ids and prices keep their
// exact textual form through a decode/encode cycle.
var (
	decodeAPI    = sonic.Config{UseNumber: true, CopyString: true}.Froze()
	canonicalAPI = sonic.Config{SortMapKeys: true, EscapeHTML: true, ValidateString: true}.Froze()
)

// Decode parses a JSON document into target.
func Decode(raw []byte, target any) error {
	return decodeAPI.Unmarshal(raw, target)
}

// Canonical encodes value compactly with sorted object keys.
func Canonical(value any) ([]byte, error) {
	return canonicalAPI.Marshal(value)
}

// WriteIndented writes value to w as two-space indented JSON followed by a newline.
func WriteIndented(w io.Writer, value any) error {
	raw, err := canonicalAPI.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	_, err = w.Write([]byte{'\n'})
	return err
}
