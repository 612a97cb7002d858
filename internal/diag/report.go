package diag

import (
	"fmt"
	"strings"

	"ghkeys/internal/keys"
)

// GenerateReport renders the diagnostic result as plain text for --report /
// doctor mode. Verbose adds per-account key details.
func GenerateReport(res Result, verbose bool) string {
	var b strings.Builder

	b.WriteString("ghkeys diagnostic report\n")
	b.WriteString("========================\n\n")

	mode := "unified"
	if res.SplitEnabled {
		mode = "split"
	}
	fmt.Fprintf(&b, "Mode: %s\n", mode)
	fmt.Fprintf(&b, "Accounts: %d\n\n", len(res.Accounts))

	if len(res.Accounts) > 0 {
		b.WriteString("Accounts\n--------\n")
		for i, rec := range res.Accounts {
			fmt.Fprintf(&b, "%2d. %-16s %-28s %s\n", i+1, rec.Name, rec.Email, rec.Alias)
			if verbose {
				fmt.Fprintf(&b, "    source:  %s\n", rec.Source)
				fmt.Fprintf(&b, "    managed: %v\n", rec.Managed)
				if rec.KeyPath != "" {
					fmt.Fprintf(&b, "    key:     %s\n", rec.KeyPath)
					if fp := keys.Fingerprint(rec.KeyPath + ".pub"); fp != "" {
						fmt.Fprintf(&b, "    sha256:  %s\n", fp)
					}
				}
				fmt.Fprintf(&b, "    remote:  git@%s:owner/repo.git\n", rec.Alias)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("Findings\n--------\n")
	for _, f := range res.Findings {
		if f.Account != "" {
			fmt.Fprintf(&b, "[%s] %s: %s\n", f.Level, f.Account, f.Message)
		} else {
			fmt.Fprintf(&b, "[%s] %s\n", f.Level, f.Message)
		}
	}

	if warns := res.Warnings(); len(warns) > 0 {
		fmt.Fprintf(&b, "\n%d warning(s). A backup of the current state can be taken with `ghkeys backup`.\n", len(warns))
	}

	return b.String()
}
