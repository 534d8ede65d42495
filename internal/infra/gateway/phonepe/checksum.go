package phonepe

import (
	"crypto/sha256"
	"encoding/hex"
)

// checksum implements the gateway's X-VERIFY scheme:
// sha256 hex of (payload + path + salt key), suffixed with "###" and the
// salt index. For the pay call the payload is the base64 request body; for
// the status call it is empty and only the path is signed.
func checksum(base64Payload, path, saltKey, saltIndex string) string {
	sum := sha256.Sum256([]byte(base64Payload + path + saltKey))
	return hex.EncodeToString(sum[:]) + "###" + saltIndex
}
