package keys

import (
	"fmt"
	"os"
)

// PermStatus describes the permission health of one key pair.
type PermStatus struct {
	PrivateExists bool
	PublicExists  bool
	PrivateMode   os.FileMode
	PublicMode    os.FileMode
}

// PrivateTooOpen reports whether the private key is readable by group/other.
// 0600 is the only acceptable shape; ssh itself refuses looser keys.
func (s PermStatus) PrivateTooOpen() bool {
	return s.PrivateExists && s.PrivateMode.Perm()&0077 != 0
}

// CheckPerms inspects an account's key pair. Either file may be absent;
// that is a diagnostic condition, not an error.
func CheckPerms(keyPath string) PermStatus {
	var s PermStatus
	if keyPath == "" {
		return s
	}
	if fi, err := os.Stat(keyPath); err == nil {
		s.PrivateExists = true
		s.PrivateMode = fi.Mode()
	}
	if fi, err := os.Stat(keyPath + ".pub"); err == nil {
		s.PublicExists = true
		s.PublicMode = fi.Mode()
	}
	return s
}

// FixPerms clamps an existing private key to 0600.
func FixPerms(keyPath string) error {
	s := CheckPerms(keyPath)
	if !s.PrivateExists {
		return fmt.Errorf("%s: no such key file", keyPath)
	}
	return os.Chmod(keyPath, 0600)
}
