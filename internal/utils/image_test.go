package utils

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase64Image(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	data, contentType, err := DecodeBase64Image(payload)
	require.NoError(t, err)
	assert.Equal(t, raw, data)
	assert.Equal(t, "image/png", contentType)
}

func TestDecodeBase64ImageRejectsNonDataURI(t *testing.T) {
	_, _, err := DecodeBase64Image("https://example.com/image.png")
	assert.ErrorIs(t, err, ErrBadImagePayload)
}

func TestDecodeBase64ImageRejectsMissingData(t *testing.T) {
	_, _, err := DecodeBase64Image("data:image/png;base64")
	assert.ErrorIs(t, err, ErrBadImagePayload)
}

func TestDecodeBase64ImageRejectsBadEncoding(t *testing.T) {
	_, _, err := DecodeBase64Image("data:image/png;base64,!!!not-base64!!!")
	assert.ErrorIs(t, err, ErrBadImagePayload)
}
