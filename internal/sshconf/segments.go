package sshconf

import (
	"strings"
)

// segment is one slice of the unified file: either a managed block (ownership
// comment through the blank-line run that ends it) or a run of raw lines we
// do not own. Mutations drop or rewrite whole segments and re-serialize, so
// unrelated content survives byte-for-byte; no pattern surgery on the file.
type segment struct {
	name  string // managed account name; "" = raw passthrough
	lines []string
}

// parseSegments splits lines into raw and managed segments. A managed segment
// starts at an ownership comment and extends through the next blank line
// (inclusive of the whole blank run) or EOF.
func parseSegments(lines []string) []segment {
	var segs []segment
	var raw []string

	flushRaw := func() {
		if len(raw) > 0 {
			segs = append(segs, segment{lines: raw})
			raw = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		m := managedCommentRe.FindStringSubmatch(lines[i])
		if m == nil {
			raw = append(raw, lines[i])
			continue
		}
		flushRaw()
		block := []string{lines[i]}
		j := i + 1
		for ; j < len(lines); j++ {
			block = append(block, lines[j])
			if strings.TrimSpace(lines[j]) == "" {
				// Swallow the whole blank run so dropping the
				// segment leaves no double gap behind.
				for j+1 < len(lines) && strings.TrimSpace(lines[j+1]) == "" {
					j++
					block = append(block, lines[j])
				}
				break
			}
		}
		segs = append(segs, segment{name: m[1], lines: block})
		i = j
	}
	flushRaw()
	return segs
}

// alias reads the Host alias out of a managed segment's own lines.
func (s segment) alias() string {
	for _, line := range s.lines {
		fields := strings.Fields(line)
		if len(fields) >= 2 && strings.EqualFold(fields[0], "Host") {
			return fields[1]
		}
	}
	return ""
}

// blockLines returns the segment without its trailing blank run, for writing
// into a standalone split file.
func (s segment) blockLines() []string {
	out := append([]string(nil), s.lines...)
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return out
}

// renderSegments reassembles the file, collapsing any blank-line run left at
// the end by a removal.
func renderSegments(segs []segment) []string {
	var out []string
	for _, s := range segs {
		out = append(out, s.lines...)
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return out
}

// findSegment locates the managed segment for an account name.
func findSegment(segs []segment, name string) int {
	for i, s := range segs {
		if s.name == name {
			return i
		}
	}
	return -1
}
