package keys

import (
	"os/exec"
	"strings"
)

// successMarker is the phrase GitHub prints when key auth works. See
// TestAuth for why we match on text instead of the exit code.
const successMarker = "successfully authenticated"

// TestAuth probes whether the alias authenticates against GitHub by running
// `ssh -T` in batch mode and scanning the output.
//
// github.com greets authenticated users and then disconnects without
// granting a shell, so ssh exits non-zero even on success. The exit code
// carries no signal here; the output substring is the only indicator GitHub
// gives us. The returned output lets callers show the greeting (which names
// the authenticated account).
func TestAuth(alias string) (bool, string) {
	cmd := exec.Command("ssh",
		"-T",
		"-o", "BatchMode=yes",
		"-o", "ConnectTimeout=10",
		"git@"+alias,
	)
	out, _ := cmd.CombinedOutput()
	text := strings.TrimSpace(string(out))
	return strings.Contains(text, successMarker), text
}
