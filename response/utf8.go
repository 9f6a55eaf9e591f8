package response

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// strictUTF8Decoder is x/text's UTF-8 decoder, used to validate a
// borrowed row's JSON text before TransformRow copies it into the
// response buffer (§4.E). The decoder does not fail on invalid input:
// it replaces each invalid byte with U+FFFD.
var strictUTF8Decoder = unicode.UTF8.NewDecoder()

// ValidateUTF8 reports an error if data is not valid UTF-8. Valid input
// decodes to itself, so any difference between the decoded copy and data
// means a byte was replaced. transform.Bytes allocates that copy; it is
// discarded after the comparison.
func ValidateUTF8(data []byte) error {
	decoded, _, err := transform.Bytes(strictUTF8Decoder, data)
	if err == nil && !bytes.Equal(decoded, data) {
		err = errors.New("invalid byte sequence")
	}
	if err != nil {
		return fmt.Errorf("response: row text is not valid utf-8: %w", err)
	}
	return nil
}
