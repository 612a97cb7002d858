package sshconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/creachadair/atomicfile"

	"ghkeys/internal/model"
)

const blockIndent = "    "

// BlockLines builds the canonical block text for an account. The IdentityFile
// keeps the ~ shorthand so the config stays portable.
func BlockLines(name, email, keyPath string) []string {
	return []string{
		fmt.Sprintf("# ghkeys account: %s %s", name, email),
		"Host " + model.AliasFor(name),
		blockIndent + "HostName " + model.GitHubHost,
		blockIndent + "User git",
		blockIndent + "IdentityFile " + model.ContractTilde(keyPath),
		blockIndent + "IdentitiesOnly yes",
	}
}

// writeFileAtomic commits lines to path via write-temp-then-rename, so a
// failed write never leaves a torn config behind.
func writeFileAtomic(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := atomicfile.New(path, 0600)
	if err != nil {
		return err
	}
	defer f.Cancel()
	if _, err := f.Write([]byte(model.JoinLines(lines))); err != nil {
		return err
	}
	return f.Close()
}

// WriteBlock appends a new block to the unified file, or creates a split file
// named after the alias. Duplicate detection against the Directory is the
// caller's job for unified writes; split writes refuse to overwrite.
func WriteBlock(p model.Paths, name, email, keyPath string, mode model.SourceMode) error {
	block := BlockLines(name, email, keyPath)

	if mode == model.Split {
		target := filepath.Join(p.SplitDir, model.AliasFor(name))
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("%s: %w", target, ErrSplitFileExists)
		}
		if err := os.MkdirAll(p.SplitDir, 0700); err != nil {
			return fmt.Errorf("create split dir: %w", err)
		}
		return writeFileAtomic(target, block)
	}

	lines, err := model.ReadLines(p.ConfigFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", p.ConfigFile, err)
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) != "" {
		lines = append(lines, "")
	}
	lines = append(lines, block...)
	return writeFileAtomic(p.ConfigFile, lines)
}

// RemoveBlock deletes an account's block from both representations. An
// account may live in either depending on history, so absence in one is a
// no-op, not an error; only absence in both reports ErrNotFound.
func RemoveBlock(p model.Paths, name string) error {
	foundUnified, err := removeUnified(p, name)
	if err != nil {
		return err
	}
	foundSplit, err := removeSplit(p, name)
	if err != nil {
		return err
	}
	if !foundUnified && !foundSplit {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return nil
}

func removeUnified(p model.Paths, name string) (bool, error) {
	lines, err := model.ReadLines(p.ConfigFile)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", p.ConfigFile, err)
	}
	segs := parseSegments(lines)
	idx := findSegment(segs, name)
	if idx < 0 {
		return false, nil
	}
	segs = append(segs[:idx], segs[idx+1:]...)
	if err := writeFileAtomic(p.ConfigFile, renderSegments(segs)); err != nil {
		return false, err
	}
	return true, nil
}

func removeSplit(p model.Paths, name string) (bool, error) {
	path, ok, err := findSplitFile(p, name)
	if err != nil || !ok {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("remove %s: %w", path, err)
	}
	return true, nil
}

// findSplitFile locates the split file holding an account, by parsing each
// file rather than trusting filenames (a hand-renamed file still counts).
func findSplitFile(p model.Paths, name string) (string, bool, error) {
	entries, err := os.ReadDir(p.SplitDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read split dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(p.SplitDir, e.Name())
		records, err := ParseFile(path, model.Split)
		if err != nil {
			return "", false, err
		}
		for _, rec := range records {
			if rec.Name == name {
				return path, true, nil
			}
		}
	}
	return "", false, nil
}

// UpdateEmail rewrites the ownership comment's email in the given
// representation. It touches only the comment line; HostName/IdentityFile
// stay untouched. ErrNotFound means no ownership comment for that name exists
// there; a hand-written block cannot be updated this way.
func UpdateEmail(p model.Paths, name, newEmail string, mode model.SourceMode) error {
	if mode == model.Split {
		path, ok, err := findSplitFile(p, name)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		lines, err := model.ReadLines(path)
		if err != nil {
			return err
		}
		if !rewriteComment(lines, name, newEmail) {
			return fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return writeFileAtomic(path, lines)
	}

	lines, err := model.ReadLines(p.ConfigFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", p.ConfigFile, err)
	}
	if !rewriteComment(lines, name, newEmail) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return writeFileAtomic(p.ConfigFile, lines)
}

func rewriteComment(lines []string, name, newEmail string) bool {
	prefix := fmt.Sprintf("# ghkeys account: %s ", name)
	for i, line := range lines {
		if strings.HasPrefix(line, prefix) && managedCommentRe.MatchString(line) {
			lines[i] = fmt.Sprintf("# ghkeys account: %s %s", name, newEmail)
			return true
		}
	}
	return false
}

// SetEmail is the user-facing update: it resolves which representation holds
// the account and reports unmanaged blocks distinctly from missing ones.
func SetEmail(p model.Paths, name, newEmail string) error {
	if err := ValidateEmail(newEmail); err != nil {
		return err
	}
	dir, err := Load(p)
	if err != nil {
		return err
	}
	rec, ok := dir.Find(name)
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if !rec.Managed {
		return fmt.Errorf("%s: %w", name, ErrUnmanaged)
	}
	return UpdateEmail(p, name, newEmail, rec.SourceMode)
}
