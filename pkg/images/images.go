// Package images handles the transportable encoded form of recipe images:
// base64 data URIs on write, raw bytes plus mime type in the store.
package images

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidDataURI reports a payload that is not a base64 data URI.
var ErrInvalidDataURI = errors.New("invalid base64 data URI")

// ParseDataURI decodes a "data:<mime>;base64,<payload>" string into its
// mime type and raw bytes.
func ParseDataURI(s string) (string, []byte, error) {
	meta, payload, found := strings.Cut(s, ",")
	if !found || !strings.HasPrefix(meta, "data:") {
		return "", nil, ErrInvalidDataURI
	}
	meta = strings.TrimPrefix(meta, "data:")
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok || mime == "" {
		return "", nil, ErrInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrInvalidDataURI
	}
	return mime, data, nil
}

// DataURI encodes raw bytes back into a base64 data URI.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
