package composer

import "encoding/base64"

// EncodePayload converts raw image bytes into the transferable text form used
// by inline data parts.
func EncodePayload(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodePayload reverses EncodePayload. The pair must round-trip arbitrary
// binary data exactly.
func DecodePayload(encoded string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(encoded)
}
