// Package backup snapshots the files this tool mutates into timestamped
// directories. It is a compensating-action safety net, not a transaction:
// nothing rolls back automatically, but every destructive operation is
// preceded by a snapshot the user can restore from.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ghkeys/internal/model"
)

const stampFormat = "20060102-150405"

// Snapshot copies the unified file, all split files, and all managed key
// files into a new timestamped directory under the backup dir. Returns the
// snapshot directory path, or "" when there was nothing to copy.
func Snapshot(p model.Paths) (string, error) {
	var files []string
	if _, err := os.Stat(p.ConfigFile); err == nil {
		files = append(files, p.ConfigFile)
	}
	if entries, err := os.ReadDir(p.SplitDir); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				files = append(files, filepath.Join(p.SplitDir, e.Name()))
			}
		}
	}
	if entries, err := os.ReadDir(p.SSHDir); err == nil {
		for _, e := range entries {
			if !e.IsDir() && strings.HasPrefix(e.Name(), "id_ed25519_gh_") {
				files = append(files, filepath.Join(p.SSHDir, e.Name()))
			}
		}
	}
	if len(files) == 0 {
		return "", nil
	}

	dir := filepath.Join(p.BackupDir, time.Now().Format(stampFormat))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	for _, src := range files {
		if err := copyFile(src, filepath.Join(dir, filepath.Base(src))); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// Restore copies a snapshot's files back into place. The unified file and key
// files return to the SSH dir; split files (recognized by the managed alias
// naming) return to the split dir.
func Restore(p model.Paths, stamp string) error {
	dir := filepath.Join(p.BackupDir, stamp)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", stamp, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		src := filepath.Join(dir, e.Name())
		var dst string
		switch {
		case e.Name() == filepath.Base(p.ConfigFile):
			dst = p.ConfigFile
		case e.Name() == model.DefaultAlias || strings.HasPrefix(e.Name(), model.AliasPrefix):
			if err := os.MkdirAll(p.SplitDir, 0700); err != nil {
				return err
			}
			dst = filepath.Join(p.SplitDir, e.Name())
		default:
			dst = filepath.Join(p.SSHDir, e.Name())
		}
		if err := copyFile(src, dst); err != nil {
			return err
		}
	}
	return nil
}

// List returns snapshot stamps, newest first.
func List(p model.Paths) ([]string, error) {
	entries, err := os.ReadDir(p.BackupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var stamps []string
	for _, e := range entries {
		if e.IsDir() {
			stamps = append(stamps, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(stamps)))
	return stamps, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
