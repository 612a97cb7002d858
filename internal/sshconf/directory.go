package sshconf

import (
	"fmt"
	"os"
	"path/filepath"

	"ghkeys/internal/model"
)

// Directory is the in-memory view over both physical representations. It is
// rebuilt from disk on every Load; nothing here is cached between commands.
type Directory struct {
	unified []model.AccountRecord
	split   []model.AccountRecord
}

// Load parses the unified file and then every split file, in filesystem
// iteration order (os.ReadDir sorts by name).
func Load(p model.Paths) (*Directory, error) {
	unified, err := ParseFile(p.ConfigFile, model.Unified)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.ConfigFile, err)
	}

	var split []model.AccountRecord
	entries, err := os.ReadDir(p.SplitDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read split dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		records, err := ParseFile(filepath.Join(p.SplitDir, e.Name()), model.Split)
		if err != nil {
			return nil, fmt.Errorf("parse split file %s: %w", e.Name(), err)
		}
		split = append(split, records...)
	}

	return &Directory{unified: unified, split: split}, nil
}

// List returns the effective records in discovery order: unified blocks first
// in file order, then split blocks. Each alias appears at most once; when
// both representations hold it, the unified occurrence wins and the split one
// is suppressed (both still exist on disk until merged).
func (d *Directory) List() []model.AccountRecord {
	seen := make(map[string]bool)
	var out []model.AccountRecord
	for _, rec := range append(append([]model.AccountRecord(nil), d.unified...), d.split...) {
		if seen[rec.Alias] {
			continue
		}
		seen[rec.Alias] = true
		out = append(out, rec)
	}
	return out
}

// Find looks an account up by name in the effective view.
func (d *Directory) Find(name string) (model.AccountRecord, bool) {
	for _, rec := range d.List() {
		if rec.Name == name {
			return rec, true
		}
	}
	return model.AccountRecord{}, false
}

// AllAliases returns the raw union of aliases across both sources with
// duplicates preserved. Diagnostics count these to detect cross-source
// duplicates, which List would hide.
func (d *Directory) AllAliases() []string {
	var out []string
	for _, rec := range d.unified {
		out = append(out, rec.Alias)
	}
	for _, rec := range d.split {
		out = append(out, rec.Alias)
	}
	return out
}
