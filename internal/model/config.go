package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Paths is the injected location config for every component. Nothing in this
// codebase reads ~/.ssh through a global; tests point Paths at a temp dir.
type Paths struct {
	SSHDir     string `envconfig:"SSH_DIR"`
	ConfigFile string `envconfig:"CONFIG_FILE"`
	SplitDir   string `envconfig:"SPLIT_DIR"`
	BackupDir  string `envconfig:"BACKUP_DIR"`
}

// DefaultPaths builds the standard layout under ~/.ssh, then applies any
// GHKEYS_* environment overrides (GHKEYS_SSH_DIR etc).
func DefaultPaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve home directory: %w", err)
	}
	p := Paths{SSHDir: filepath.Join(home, ".ssh")}
	if err := envconfig.Process("ghkeys", &p); err != nil {
		return Paths{}, fmt.Errorf("environment overrides: %w", err)
	}
	// Fill whatever was not overridden, relative to the (possibly
	// overridden) SSH dir so GHKEYS_SSH_DIR alone moves everything.
	derived := PathsIn(p.SSHDir)
	if p.ConfigFile == "" {
		p.ConfigFile = derived.ConfigFile
	}
	if p.SplitDir == "" {
		p.SplitDir = derived.SplitDir
	}
	if p.BackupDir == "" {
		p.BackupDir = derived.BackupDir
	}
	return p, nil
}

// PathsIn lays out the standard file locations inside sshDir.
func PathsIn(sshDir string) Paths {
	return Paths{
		SSHDir:     sshDir,
		ConfigFile: filepath.Join(sshDir, "config"),
		SplitDir:   filepath.Join(sshDir, "ghkeys.d"),
		BackupDir:  filepath.Join(sshDir, "ghkeys-backups"),
	}
}

// KeyPath is the private key location for an account name.
func (p Paths) KeyPath(name string) string {
	return filepath.Join(p.SSHDir, "id_ed25519_gh_"+name)
}

// IncludeLine is the directive whose presence in the unified file is the sole
// signal that split mode is active.
func (p Paths) IncludeLine() string {
	return "Include " + filepath.Join(p.SplitDir, "*")
}
