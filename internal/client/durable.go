package client

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const fallbackMimeType = "image/jpeg"

// EncodeDataURI returns data:<mime>;base64,<data>. The mime type is sniffed
// from the leading bytes and falls back to image/jpeg.
func EncodeDataURI(data []byte) string {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = fallbackMimeType
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// DecodeDurableEncoding turns a data URI produced by ToDurableEncoding back
// into the original bytes and their mime type.
func DecodeDurableEncoding(encoded string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(encoded, "data:")
	if !ok {
		return nil, "", errors.New("durable encoding must start with data:")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", errors.New("durable encoding has no payload")
	}
	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return nil, "", errors.New("durable encoding is not base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode durable encoding: %w", err)
	}
	if mimeType == "" {
		mimeType = fallbackMimeType
	}
	return data, mimeType, nil
}
