// Package sanitizer normalizes user-facing input before it becomes a
// storage key. Only the email helpers survive here; identities double as
// document keys, so two spellings of one address must not create two
// credential records.
package sanitizer

import (
	"regexp"
	"strings"
)

var dotRun = regexp.MustCompile(`\.{2,}`)

// NormalizeEmail lowercases and trims an address and collapses dot runs in
// the local part. Anything that does not look like an address is returned
// trimmed and lowercased as-is.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return email
	}

	local = dotRun.ReplaceAllString(local, ".")
	local = strings.Trim(local, ".")

	return local + "@" + domain
}
