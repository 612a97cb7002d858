// Package diag renders health checks over the account directory. Everything
// here is an IntegrityWarning: diagnostics report, they never fail. Parse
// degradation (incomplete blocks), permission drift, and cross-source
// duplicates all end up as renderable findings.
package diag

import (
	"fmt"
	"os"
	"sort"

	"ghkeys/internal/keys"
	"ghkeys/internal/model"
	"ghkeys/internal/sshconf"
)

// Level classifies a finding.
type Level int

const (
	OK Level = iota
	Info
	Warn
)

func (l Level) String() string {
	switch l {
	case Warn:
		return "WARN"
	case Info:
		return "info"
	default:
		return "ok"
	}
}

// Finding is one diagnostic line, optionally tied to an account.
type Finding struct {
	Level   Level  `json:"level"`
	Account string `json:"account,omitempty"`
	Message string `json:"message"`
}

// Result is the full diagnostic view consumed by the report, the TUI and the
// web API.
type Result struct {
	Accounts     []model.AccountRecord `json:"accounts"`
	SplitEnabled bool                  `json:"split_enabled"`
	Findings     []Finding             `json:"findings"`
}

// Warnings returns only the Warn-level findings.
func (r Result) Warnings() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Level == Warn {
			out = append(out, f)
		}
	}
	return out
}

// Run loads the directory and applies every check.
func Run(p model.Paths) (Result, error) {
	dir, err := sshconf.Load(p)
	if err != nil {
		return Result{}, err
	}
	enabled, err := sshconf.SplitEnabled(p)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Accounts:     dir.List(),
		SplitEnabled: enabled,
	}

	add := func(level Level, account, format string, args ...any) {
		res.Findings = append(res.Findings, Finding{
			Level:   level,
			Account: account,
			Message: fmt.Sprintf(format, args...),
		})
	}

	// Cross-source duplicates come from the raw alias union; the effective
	// view already collapses them.
	counts := make(map[string]int)
	for _, alias := range dir.AllAliases() {
		counts[alias]++
	}
	for _, alias := range sortedKeys(counts) {
		if counts[alias] > 1 {
			add(Warn, model.AccountName(alias),
				"alias %q appears in both unified and split configs; the unified copy wins until you merge", alias)
		}
	}

	for _, rec := range res.Accounts {
		if rec.KeyPath == "" {
			add(Warn, rec.Name, "incomplete block: Host %s has no IdentityFile", rec.Alias)
			continue
		}
		st := keys.CheckPerms(rec.KeyPath)
		if !st.PrivateExists {
			add(Warn, rec.Name, "private key %s is missing", rec.KeyPath)
		} else if st.PrivateTooOpen() {
			add(Warn, rec.Name, "private key %s is %04o, want 0600", rec.KeyPath, st.PrivateMode.Perm())
		}
		if !st.PublicExists {
			add(Info, rec.Name, "public key %s.pub is missing; email inference unavailable", rec.KeyPath)
		}
		if !rec.Managed {
			add(Info, rec.Name, "block for %s is hand-written (no ownership comment); set-email cannot touch it", rec.Alias)
		}
	}

	if enabled {
		if entries, err := os.ReadDir(p.SplitDir); err != nil || len(entries) == 0 {
			add(Warn, "", "include directive is present but %s is missing or empty (orphaned split mode)", p.SplitDir)
		}
	}

	if len(res.Warnings()) == 0 {
		add(OK, "", "no integrity problems found")
	}
	return res, nil
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
