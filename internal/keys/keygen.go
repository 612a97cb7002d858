package keys

import (
	"fmt"
	"os"
	"os/exec"

	"ghkeys/internal/model"
)

// Generate creates an ed25519 key pair for the account by invoking
// ssh-keygen, with the account email as the key comment and an empty
// passphrase (users who want one can run ssh-keygen -p afterwards).
// Returns the private key path.
func Generate(p model.Paths, name, email string) (string, error) {
	if err := os.MkdirAll(p.SSHDir, 0700); err != nil {
		return "", fmt.Errorf("create ssh dir: %w", err)
	}
	keyPath := p.KeyPath(name)
	if _, err := os.Stat(keyPath); err == nil {
		return "", fmt.Errorf("key file %s already exists", keyPath)
	}

	cmd := exec.Command("ssh-keygen",
		"-t", "ed25519",
		"-C", email,
		"-f", keyPath,
		"-N", "",
		"-q",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ssh-keygen: %v: %s", err, out)
	}

	// ssh-keygen honors the umask, so pin the modes ourselves.
	if err := os.Chmod(keyPath, 0600); err != nil {
		return "", fmt.Errorf("chmod private key: %w", err)
	}
	if err := os.Chmod(keyPath+".pub", 0644); err != nil {
		return "", fmt.Errorf("chmod public key: %w", err)
	}
	return keyPath, nil
}

// Remove deletes the account's key pair. Missing files are fine: the record
// may have been created around hand-managed keys.
func Remove(keyPath string) error {
	if keyPath == "" {
		return nil
	}
	for _, path := range []string{keyPath, keyPath + ".pub"} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}
