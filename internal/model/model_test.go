package model

import (
	"path/filepath"
	"testing"
)

func TestAliasRoundTrip(t *testing.T) {
	for _, name := range []string{"default", "work", "a-b_c"} {
		if got := AccountName(AliasFor(name)); got != name {
			t.Errorf("AccountName(AliasFor(%q)) = %q", name, got)
		}
	}
}

func TestSplitJoinLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a\n", []string{"a"}},
		{"a\nb\n", []string{"a", "b"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"a\nb", []string{"a", "b"}},
		{"\n", []string{""}},
	}
	for _, tt := range tests {
		got := SplitLines(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("SplitLines(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitLines(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}

	if got := JoinLines([]string{"a", "b"}); got != "a\nb\n" {
		t.Errorf("JoinLines = %q", got)
	}
	if got := JoinLines(nil); got != "" {
		t.Errorf("JoinLines(nil) = %q", got)
	}
}

func TestTildeContractExpand(t *testing.T) {
	t.Setenv("HOME", "/home/alice")

	if got := ContractTilde("/home/alice/.ssh/id_ed25519_gh_work"); got != "~/.ssh/id_ed25519_gh_work" {
		t.Errorf("ContractTilde = %q", got)
	}
	if got := ContractTilde("/etc/ssh/config"); got != "/etc/ssh/config" {
		t.Errorf("ContractTilde left = %q", got)
	}
	if got := ContractTilde("/home/alicedata/x"); got != "/home/alicedata/x" {
		t.Errorf("ContractTilde prefix trap = %q", got)
	}
	if got := ExpandTilde("~/.ssh/config"); got != "/home/alice/.ssh/config" {
		t.Errorf("ExpandTilde = %q", got)
	}
	if got := ExpandTilde("relative/path"); got != "relative/path" {
		t.Errorf("ExpandTilde left = %q", got)
	}
}

func TestPathsIn(t *testing.T) {
	p := PathsIn("/tmp/x")
	if p.ConfigFile != filepath.Join("/tmp/x", "config") {
		t.Errorf("ConfigFile = %q", p.ConfigFile)
	}
	if p.KeyPath("work") != filepath.Join("/tmp/x", "id_ed25519_gh_work") {
		t.Errorf("KeyPath = %q", p.KeyPath("work"))
	}
	if p.IncludeLine() != "Include /tmp/x/ghkeys.d/*" {
		t.Errorf("IncludeLine = %q", p.IncludeLine())
	}
}

func TestDefaultPathsEnvOverride(t *testing.T) {
	t.Setenv("GHKEYS_SSH_DIR", "/custom/ssh")
	p, err := DefaultPaths()
	if err != nil {
		t.Fatal(err)
	}
	if p.SSHDir != "/custom/ssh" {
		t.Errorf("SSHDir = %q", p.SSHDir)
	}
	if p.ConfigFile != "/custom/ssh/config" {
		t.Errorf("ConfigFile = %q, want derived from override", p.ConfigFile)
	}
	if p.SplitDir != "/custom/ssh/ghkeys.d" {
		t.Errorf("SplitDir = %q", p.SplitDir)
	}
}
