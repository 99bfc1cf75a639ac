// Package gravatar derives default avatar URLs from email addresses
// following the gravatar.com convention: an md5 hex digest of the
// trimmed, lowercased address.
package gravatar

import (
	"crypto/md5"
	"fmt"
	"strings"
)

const baseURL = "https://www.gravatar.com/avatar"

// URL returns the deterministic avatar URL for an email address.
// Rating "pg", size 200, "mystery man" fallback image.
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("%s/%x?d=mm&r=pg&s=200", baseURL, hash)
}
