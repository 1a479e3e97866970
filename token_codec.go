package adminauth

import (
	"encoding/base64"
	"strings"
)

// SplitToken breaks a compact JWT into its three segments. Anything
// other than exactly three dot-separated segments is malformed.
func SplitToken(tokenString string) ([]string, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, ErrTokenMalformed
	}
	return parts, nil
}

// DecodeSegment decodes a base64url token segment, tolerating both
// padded and unpadded input.
func DecodeSegment(segment string) ([]byte, error) {
	if l := len(segment) % 4; l > 0 {
		segment += strings.Repeat("=", 4-l)
	}
	b, err := base64.URLEncoding.DecodeString(segment)
	if err != nil {
		return nil, ErrTokenMalformed
	}
	return b, nil
}

// EncodeSegment encodes bytes as an unpadded base64url token segment.
func EncodeSegment(seg []byte) string {
	return base64.RawURLEncoding.EncodeToString(seg)
}
