package discovery

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// BridgeID derives a stable bridge id from the host name and port.
//
// The bridge id is the first 64 bits (16 hex chars) of
// SHA-256("<host>:<port>").
func BridgeID(host string, port uint16) string {
	hash := sha256.Sum256([]byte(host + ":" + strconv.Itoa(int(port))))
	return hex.EncodeToString(hash[:8])
}

// ValidateID checks if an ID string is a valid 64-bit fingerprint (16 hex chars).
func ValidateID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	return isHexString(id)
}

func isHexString(s string) bool {
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
