package backup

import (
	"os"
	"path/filepath"
	"testing"

	"ghkeys/internal/model"
)

func TestSnapshotAndRestore(t *testing.T) {
	p := model.PathsIn(t.TempDir())
	if err := os.WriteFile(p.ConfigFile, []byte("Host github-work\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p.KeyPath("work"), []byte("private"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(p.SplitDir, 0700); err != nil {
		t.Fatal(err)
	}
	splitFile := filepath.Join(p.SplitDir, "github-personal")
	if err := os.WriteFile(splitFile, []byte("Host github-personal\n"), 0600); err != nil {
		t.Fatal(err)
	}

	dir, err := Snapshot(p)
	if err != nil {
		t.Fatal(err)
	}
	if dir == "" {
		t.Fatal("snapshot reported nothing to copy")
	}
	for _, base := range []string{"config", "id_ed25519_gh_work", "github-personal"} {
		if _, err := os.Stat(filepath.Join(dir, base)); err != nil {
			t.Errorf("snapshot missing %s: %v", base, err)
		}
	}

	// Clobber everything, then restore.
	if err := os.Remove(p.ConfigFile); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(p.KeyPath("work")); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(splitFile); err != nil {
		t.Fatal(err)
	}

	if err := Restore(p, filepath.Base(dir)); err != nil {
		t.Fatal(err)
	}
	if data, err := os.ReadFile(p.ConfigFile); err != nil || string(data) != "Host github-work\n" {
		t.Errorf("config not restored: %q, %v", data, err)
	}
	if _, err := os.Stat(p.KeyPath("work")); err != nil {
		t.Errorf("key not restored: %v", err)
	}
	if _, err := os.Stat(splitFile); err != nil {
		t.Errorf("split file not restored to split dir: %v", err)
	}

	fi, err := os.Stat(p.KeyPath("work"))
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0600 {
		t.Errorf("restored key mode = %04o, want 0600", fi.Mode().Perm())
	}
}

func TestSnapshotEmptyState(t *testing.T) {
	p := model.PathsIn(t.TempDir())
	dir, err := Snapshot(p)
	if err != nil {
		t.Fatal(err)
	}
	if dir != "" {
		t.Errorf("empty snapshot produced %s", dir)
	}
}

func TestList(t *testing.T) {
	p := model.PathsIn(t.TempDir())
	stamps, err := List(p)
	if err != nil || stamps != nil {
		t.Fatalf("List on empty state = %v, %v", stamps, err)
	}

	for _, s := range []string{"20260101-000000", "20260102-000000"} {
		if err := os.MkdirAll(filepath.Join(p.BackupDir, s), 0700); err != nil {
			t.Fatal(err)
		}
	}
	stamps, err = List(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(stamps) != 2 || stamps[0] != "20260102-000000" {
		t.Errorf("List = %v, want newest first", stamps)
	}
}
