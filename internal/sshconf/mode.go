package sshconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ghkeys/internal/model"
)

// SplitEnabled reports whether the include directive referencing the split
// directory is present in the unified file. This is the sole signal of split
// mode and is recomputed from the file on every call, never cached.
func SplitEnabled(p model.Paths) (bool, error) {
	lines, err := model.ReadLines(p.ConfigFile)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", p.ConfigFile, err)
	}
	include := p.IncludeLine()
	for _, line := range lines {
		if strings.TrimSpace(line) == include {
			return true, nil
		}
	}
	return false, nil
}

// EnableSplit inserts the include directive as the first line of the unified
// file, separated from existing content by a blank line. Idempotent: if the
// directive is already there, it reports false and changes nothing.
func EnableSplit(p model.Paths) (bool, error) {
	enabled, err := SplitEnabled(p)
	if err != nil || enabled {
		return false, err
	}
	existing, err := model.ReadLines(p.ConfigFile)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", p.ConfigFile, err)
	}
	lines := []string{p.IncludeLine()}
	if len(existing) > 0 {
		lines = append(lines, "")
		lines = append(lines, existing...)
	}
	if err := writeFileAtomic(p.ConfigFile, lines); err != nil {
		return false, err
	}
	return true, nil
}

// DisableSplit removes the include directive if present. It does not delete
// split files or move blocks back. Idempotent.
func DisableSplit(p model.Paths) (bool, error) {
	lines, err := model.ReadLines(p.ConfigFile)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", p.ConfigFile, err)
	}
	include := p.IncludeLine()
	for i, line := range lines {
		if strings.TrimSpace(line) != include {
			continue
		}
		rest := lines[i+1:]
		// Take the separator blank that EnableSplit added along with it.
		if len(rest) > 0 && strings.TrimSpace(rest[0]) == "" {
			rest = rest[1:]
		}
		out := append(append([]string(nil), lines[:i]...), rest...)
		if err := writeFileAtomic(p.ConfigFile, out); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// SplitAll moves every managed block out of the unified file into its own
// split file, then enables split mode. The move is block-granular: each block
// is written to its split file and only then removed from the unified file,
// so an interrupted run leaves an inspectable mixed state (which the
// Directory's unified-precedence still reads consistently) rather than a torn
// file. A handled write failure compensates by deleting the split file it
// just wrote, so no block ends up in both or neither representation.
func SplitAll(p model.Paths) (int, error) {
	lines, err := model.ReadLines(p.ConfigFile)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", p.ConfigFile, err)
	}
	if err := os.MkdirAll(p.SplitDir, 0700); err != nil {
		return 0, fmt.Errorf("create split dir: %w", err)
	}

	remaining := parseSegments(lines)
	moved := 0
	for {
		idx := -1
		for i, s := range remaining {
			if s.name != "" {
				idx = i
				break
			}
		}
		if idx < 0 {
			break
		}
		seg := remaining[idx]
		alias := seg.alias()
		if alias == "" {
			alias = model.AliasFor(seg.name)
		}
		target := filepath.Join(p.SplitDir, alias)
		if _, err := os.Stat(target); err == nil {
			return moved, fmt.Errorf("%s: %w", target, ErrSplitFileExists)
		}
		if err := writeFileAtomic(target, seg.blockLines()); err != nil {
			return moved, fmt.Errorf("write %s: %w", target, err)
		}
		next := append(append([]segment(nil), remaining[:idx]...), remaining[idx+1:]...)
		if err := writeFileAtomic(p.ConfigFile, renderSegments(next)); err != nil {
			os.Remove(target)
			return moved, fmt.Errorf("rewrite %s: %w", p.ConfigFile, err)
		}
		remaining = next
		moved++
	}

	if _, err := EnableSplit(p); err != nil {
		return moved, err
	}
	return moved, nil
}

// MergeAll appends every managed split file back into the unified file and
// deletes it, then disables split mode. Zero split files is a valid no-op:
// "nothing to merge" is a terminal state, not an error.
func MergeAll(p model.Paths) (int, error) {
	entries, err := os.ReadDir(p.SplitDir)
	if err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("read split dir: %w", err)
	}

	merged := 0
	for _, e := range entries {
		if e.IsDir() || !managedSplitName(e.Name()) {
			continue
		}
		path := filepath.Join(p.SplitDir, e.Name())
		block, err := model.ReadLines(path)
		if err != nil {
			return merged, fmt.Errorf("read %s: %w", path, err)
		}
		lines, err := model.ReadLines(p.ConfigFile)
		if err != nil {
			return merged, fmt.Errorf("read %s: %w", p.ConfigFile, err)
		}
		if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) != "" {
			lines = append(lines, "")
		}
		lines = append(lines, block...)
		if err := writeFileAtomic(p.ConfigFile, lines); err != nil {
			return merged, err
		}
		if err := os.Remove(path); err != nil {
			return merged, fmt.Errorf("remove %s: %w", path, err)
		}
		merged++
	}

	if _, err := DisableSplit(p); err != nil {
		return merged, err
	}
	return merged, nil
}

// managedSplitName matches the naming convention of split files this tool
// creates: the literal default alias, or a prefixed account alias.
func managedSplitName(name string) bool {
	return name == model.DefaultAlias || strings.HasPrefix(name, model.AliasPrefix)
}
