// Package keys wraps the key-material collaborators: ssh-keygen invocation,
// public key inspection, permission policy, agent integration, and the
// GitHub auth probe. The config engine only ever sees file paths from here.
package keys

import (
	"os"
	"strings"

	"golang.org/x/crypto/ssh"
)

// InferEmail reads the comment field of a public key file, which ssh-keygen
// populates from -C and which this tool always sets to the account email.
// Returns "" when the file is absent or carries no comment; callers decide
// what sentinel to show.
func InferEmail(pubPath string) string {
	if pubPath == ".pub" || pubPath == "" {
		return ""
	}
	data, err := os.ReadFile(pubPath)
	if err != nil {
		return ""
	}
	if _, comment, _, _, err := ssh.ParseAuthorizedKey(data); err == nil && comment != "" {
		return comment
	}
	// Not parseable as an authorized key; fall back to the third
	// whitespace-separated field, which is where the comment lives.
	fields := strings.Fields(string(data))
	if len(fields) >= 3 {
		return fields[2]
	}
	return ""
}

// Fingerprint returns the SHA256 fingerprint of a public key file, or "" if
// the file is absent or unparseable. Listing consumers render "" as blank
// rather than failing.
func Fingerprint(pubPath string) string {
	data, err := os.ReadFile(pubPath)
	if err != nil {
		return ""
	}
	pub, _, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return ""
	}
	return ssh.FingerprintSHA256(pub)
}
