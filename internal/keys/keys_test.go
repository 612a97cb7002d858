package keys

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"ghkeys/internal/model"
)

func TestInferEmail(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"comment field", "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5 alice@example.com\n", "alice@example.com"},
		{"no comment", "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5\n", ""},
		{"garbage", "not a key at all\n", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".pub")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if got := InferEmail(path); got != tt.want {
				t.Errorf("InferEmail = %q, want %q", got, tt.want)
			}
		})
	}

	if got := InferEmail(filepath.Join(dir, "absent.pub")); got != "" {
		t.Errorf("InferEmail on missing file = %q, want empty", got)
	}
	if got := InferEmail(""); got != "" {
		t.Errorf("InferEmail on empty path = %q, want empty", got)
	}
}

func TestCheckPerms(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "id_ed25519_gh_work")
	if err := os.WriteFile(keyPath, []byte("private"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyPath+".pub", []byte("public"), 0644); err != nil {
		t.Fatal(err)
	}

	st := CheckPerms(keyPath)
	if !st.PrivateExists || !st.PublicExists {
		t.Fatalf("existence flags wrong: %+v", st)
	}
	if st.PrivateTooOpen() {
		t.Error("0600 key reported as too open")
	}

	if err := os.Chmod(keyPath, 0644); err != nil {
		t.Fatal(err)
	}
	if st := CheckPerms(keyPath); !st.PrivateTooOpen() {
		t.Error("0644 key not reported as too open")
	}

	if err := FixPerms(keyPath); err != nil {
		t.Fatal(err)
	}
	if st := CheckPerms(keyPath); st.PrivateTooOpen() {
		t.Error("FixPerms did not clamp the mode")
	}

	missing := CheckPerms(filepath.Join(dir, "nope"))
	if missing.PrivateExists || missing.PublicExists || missing.PrivateTooOpen() {
		t.Errorf("missing key pair misreported: %+v", missing)
	}
}

func TestGenerate(t *testing.T) {
	if _, err := exec.LookPath("ssh-keygen"); err != nil {
		t.Skip("ssh-keygen not available")
	}
	p := model.PathsIn(t.TempDir())

	keyPath, err := Generate(p, "work", "w@co.com")
	if err != nil {
		t.Fatal(err)
	}
	if keyPath != p.KeyPath("work") {
		t.Errorf("keyPath = %q, want %q", keyPath, p.KeyPath("work"))
	}

	st := CheckPerms(keyPath)
	if !st.PrivateExists || !st.PublicExists {
		t.Fatalf("key pair not on disk: %+v", st)
	}
	if st.PrivateTooOpen() {
		t.Errorf("private key mode %04o too open", st.PrivateMode.Perm())
	}
	if got := InferEmail(keyPath + ".pub"); got != "w@co.com" {
		t.Errorf("comment = %q, want w@co.com", got)
	}
	if fp := Fingerprint(keyPath + ".pub"); !strings.HasPrefix(fp, "SHA256:") {
		t.Errorf("fingerprint = %q", fp)
	}

	// No silent overwrite of existing key material.
	if _, err := Generate(p, "work", "w@co.com"); err == nil {
		t.Error("second Generate should refuse to overwrite")
	}
}
