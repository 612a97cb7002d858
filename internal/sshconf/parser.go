package sshconf

import (
	"regexp"
	"strings"

	"ghkeys/internal/keys"
	"ghkeys/internal/model"
)

// managedCommentRe recognizes the ownership comment this tool writes above
// each of its blocks: "# ghkeys account: <name> <email>".
var managedCommentRe = regexp.MustCompile(`^# ghkeys account: (\S+) (\S+)$`)

// blockState is the per-block cursor of the parser's forward pass. It exists
// as an explicit struct (rather than loose loop variables) so the flush rule
// can be tested on its own.
type blockState struct {
	alias        string // empty = no open block
	hostName     string
	identityFile string
	managed      bool
	email        string
}

// flush applies the emission rule: a pending block becomes a record iff it has
// an alias and routes to github.com. Everything else is discarded, not an
// error. This parser never rejects input, it degrades to partial records.
func (st *blockState) flush() (model.AccountRecord, bool) {
	if st.alias == "" || st.hostName != model.GitHubHost {
		return model.AccountRecord{}, false
	}
	rec := model.AccountRecord{
		Name:    model.AccountName(st.alias),
		Alias:   st.alias,
		Managed: st.managed,
		Email:   st.email,
	}
	if st.identityFile != "" {
		rec.KeyPath = model.ExpandTilde(st.identityFile)
	}
	if !rec.Managed || rec.Email == "" {
		// Discovered block: no comment to read the email from. Fall back
		// to the public key comment field, then to the sentinel.
		rec.Email = keys.InferEmail(rec.KeyPath + ".pub")
		if rec.Email == "" {
			rec.Email = model.UnknownEmail
		}
	}
	return rec, true
}

// ParseFile reads one configuration file (the unified file or a single split
// file) and yields its account records in file order. A missing file parses
// as zero records. Malformed blocks (HostName without IdentityFile, stray
// keywords) surface downstream as diagnostics, never as parse failures.
func ParseFile(path string, mode model.SourceMode) ([]model.AccountRecord, error) {
	lines, err := model.ReadLines(path)
	if err != nil {
		return nil, err
	}
	return parseLines(lines, mode), nil
}

func parseLines(lines []string, mode model.SourceMode) []model.AccountRecord {
	var records []model.AccountRecord
	var st blockState

	// Ownership comments precede their Host line, so they accumulate here
	// and transfer to the block opened by the next Host keyword.
	var pendingManaged bool
	var pendingEmail string

	emit := func() {
		if rec, ok := st.flush(); ok {
			rec.SourceMode = mode
			rec.Source = mode.String()
			records = append(records, rec)
		}
	}

	for _, line := range lines {
		if m := managedCommentRe.FindStringSubmatch(line); m != nil {
			pendingManaged = true
			pendingEmail = m[2]
			continue
		}

		indented := strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		if !indented && strings.EqualFold(fields[0], "Host") {
			emit()
			st = blockState{
				alias:   fields[1],
				managed: pendingManaged,
				email:   pendingEmail,
			}
			pendingManaged = false
			pendingEmail = ""
			continue
		}

		// Keyword lines only update the currently open block.
		if st.alias == "" {
			continue
		}
		switch {
		case strings.EqualFold(fields[0], "HostName"):
			st.hostName = fields[1]
		case strings.EqualFold(fields[0], "IdentityFile"):
			st.identityFile = fields[1]
		}
	}
	emit()

	return records
}
