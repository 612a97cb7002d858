package sshconf

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"ghkeys/internal/model"
)

func TestEnableSplitIdempotent(t *testing.T) {
	p := testPaths(t)
	if err := os.WriteFile(p.ConfigFile, []byte("Host myserver\n    HostName example.com\n"), 0600); err != nil {
		t.Fatal(err)
	}

	changed, err := EnableSplit(p)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("first enable should report a change")
	}
	once := readConfig(t, p)

	if !strings.HasPrefix(once, p.IncludeLine()+"\n\n") {
		t.Errorf("include directive not first with blank separation:\n%s", once)
	}

	changed, err = EnableSplit(p)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("second enable should be a no-op")
	}
	if twice := readConfig(t, p); twice != once {
		t.Errorf("second enable changed the file:\n%s\nvs\n%s", once, twice)
	}

	enabled, err := SplitEnabled(p)
	if err != nil || !enabled {
		t.Fatalf("SplitEnabled = %v, %v; want true", enabled, err)
	}
}

func TestDisableSplitIdempotent(t *testing.T) {
	p := testPaths(t)
	original := "Host myserver\n    HostName example.com\n"
	if err := os.WriteFile(p.ConfigFile, []byte(original), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := EnableSplit(p); err != nil {
		t.Fatal(err)
	}

	changed, err := DisableSplit(p)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("first disable should report a change")
	}
	if got := readConfig(t, p); got != original {
		t.Errorf("disable did not restore original content:\n%q\nwant\n%q", got, original)
	}

	changed, err = DisableSplit(p)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("second disable should be a no-op")
	}
}

// managedSet projects records onto the identity tuple so physical layout
// differences don't affect comparison.
func managedSet(records []model.AccountRecord) []string {
	var out []string
	for _, r := range records {
		out = append(out, strings.Join([]string{r.Name, r.Email, r.Alias, r.KeyPath}, "|"))
	}
	sort.Strings(out)
	return out
}

func TestSplitMergeInverse(t *testing.T) {
	p := testPaths(t)
	accounts := []struct{ name, email string }{
		{"work", "w@co.com"},
		{"personal", "p@co.com"},
		{"default", "d@co.com"},
	}
	for _, a := range accounts {
		if err := WriteBlock(p, a.name, a.email, p.KeyPath(a.name), model.Unified); err != nil {
			t.Fatal(err)
		}
	}
	original, err := ParseFile(p.ConfigFile, model.Unified)
	if err != nil {
		t.Fatal(err)
	}

	moved, err := SplitAll(p)
	if err != nil {
		t.Fatal(err)
	}
	if moved != len(accounts) {
		t.Fatalf("moved %d blocks, want %d", moved, len(accounts))
	}

	// Every block now lives in its own split file, none in the unified file.
	for _, name := range []string{"github-work", "github-personal", "github.com"} {
		if _, err := os.Stat(filepath.Join(p.SplitDir, name)); err != nil {
			t.Errorf("split file %s missing: %v", name, err)
		}
	}
	unifiedRecords, err := ParseFile(p.ConfigFile, model.Unified)
	if err != nil {
		t.Fatal(err)
	}
	if len(unifiedRecords) != 0 {
		t.Errorf("unified file still holds %d blocks after split", len(unifiedRecords))
	}
	if enabled, _ := SplitEnabled(p); !enabled {
		t.Error("split mode not enabled after SplitAll")
	}

	merged, err := MergeAll(p)
	if err != nil {
		t.Fatal(err)
	}
	if merged != len(accounts) {
		t.Fatalf("merged %d blocks, want %d", merged, len(accounts))
	}

	final, err := ParseFile(p.ConfigFile, model.Unified)
	if err != nil {
		t.Fatal(err)
	}
	got, want := managedSet(final), managedSet(original)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("merge did not restore the original set:\ngot  %v\nwant %v", got, want)
	}

	entries, err := os.ReadDir(p.SplitDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("split dir not empty after merge: %d entries", len(entries))
	}
	if enabled, _ := SplitEnabled(p); enabled {
		t.Error("split mode still enabled after MergeAll")
	}
}

func TestSplitAllPreservesForeignContent(t *testing.T) {
	p := testPaths(t)
	raw := "Host myserver\n    HostName example.com\n"
	if err := os.WriteFile(p.ConfigFile, []byte(raw), 0600); err != nil {
		t.Fatal(err)
	}
	if err := WriteBlock(p, "work", "w@co.com", p.KeyPath("work"), model.Unified); err != nil {
		t.Fatal(err)
	}

	if _, err := SplitAll(p); err != nil {
		t.Fatal(err)
	}
	content := readConfig(t, p)
	if !strings.Contains(content, "Host myserver") {
		t.Errorf("foreign block lost by SplitAll:\n%s", content)
	}
	if strings.Contains(content, "github-work") {
		t.Errorf("managed block not moved out:\n%s", content)
	}
}

func TestMergeAllNothingToMerge(t *testing.T) {
	p := testPaths(t)
	merged, err := MergeAll(p)
	if err != nil {
		t.Fatalf("empty merge should succeed, got %v", err)
	}
	if merged != 0 {
		t.Fatalf("merged = %d, want 0", merged)
	}
}

func TestMergeAllSkipsForeignSplitFiles(t *testing.T) {
	p := testPaths(t)
	if err := os.MkdirAll(p.SplitDir, 0700); err != nil {
		t.Fatal(err)
	}
	foreign := filepath.Join(p.SplitDir, "notours")
	if err := os.WriteFile(foreign, []byte("Host other\n    HostName example.com\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := WriteBlock(p, "work", "w@co.com", p.KeyPath("work"), model.Split); err != nil {
		t.Fatal(err)
	}

	merged, err := MergeAll(p)
	if err != nil {
		t.Fatal(err)
	}
	if merged != 1 {
		t.Fatalf("merged = %d, want 1", merged)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Errorf("foreign split file was touched: %v", err)
	}
}
