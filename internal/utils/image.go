package utils

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrBadImagePayload = errors.New("image must be a base64 data URI")

// DecodeBase64Image decodes a "data:image/<type>;base64,<data>" payload and
// returns the raw bytes plus the declared content type.
func DecodeBase64Image(payload string) ([]byte, string, error) {
	if !strings.HasPrefix(payload, "data:image") {
		return nil, "", ErrBadImagePayload
	}

	parts := strings.SplitN(payload, ",", 2)
	if len(parts) != 2 {
		return nil, "", ErrBadImagePayload
	}

	meta := strings.TrimPrefix(parts[0], "data:")        // "image/png;base64"
	contentType := strings.SplitN(meta, ";", 2)[0]       // "image/png"

	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, "", ErrBadImagePayload
	}

	return data, contentType, nil
}
