package exnode

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strconv"
)

// Sign computes the Exnode request signature: hex(HMAC-SHA512(privateKey, timestamp + body)).
// GET requests sign an empty body.
func Sign(privateKey string, timestamp int64, body []byte) string {
	mac := hmac.New(sha512.New, []byte(privateKey))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a signature in constant time.
func Verify(privateKey string, timestamp int64, body []byte, signature string) bool {
	expected := Sign(privateKey, timestamp, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
