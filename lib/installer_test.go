package lib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInstallerParseManifest(t *testing.T) {
	manifest, err := InstallerParseManifest([]byte(`
installers:
  - name: vs-buildtools
    key: installers/vs_buildtools.exe
    source: ./dist/vs_buildtools.exe
    args: ["--quiet", "--wait"]
  - name: ue5-prereqs
    key: installers/UEPrereqSetup_x64.exe
    sha256: abc123
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(manifest.Installers) != 2 {
		t.Fatalf("got %d installers", len(manifest.Installers))
	}
	if manifest.Installers[0].Args[0] != "--quiet" {
		t.Fatalf("args %v", manifest.Installers[0].Args)
	}
	if manifest.Installers[1].Sha256 != "abc123" {
		t.Fatalf("sha256 %s", manifest.Installers[1].Sha256)
	}
}

func TestInstallerParseManifestRejectsDuplicates(t *testing.T) {
	_, err := InstallerParseManifest([]byte(`
installers:
  - name: a
    key: k1
  - name: a
    key: k2
`))
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestInstallerParseManifestRejectsMissingKey(t *testing.T) {
	_, err := InstallerParseManifest([]byte(`
installers:
  - name: a
`))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParseDownloadState(t *testing.T) {
	state, err := ParseDownloadState(`{
		"updated": "2025-01-01T00:00:00Z",
		"installers": {
			"vs-buildtools": {"status": "done", "sha256": "abc"},
			"ue5-prereqs": {"status": "failed", "error": "sha256 mismatch"}
		}
	}`)
	if err != nil {
		t.Fatal(err)
	}
	if state.Installers["vs-buildtools"].Status != "done" {
		t.Fatalf("state %+v", state)
	}
	if state.Installers["ue5-prereqs"].Error != "sha256 mismatch" {
		t.Fatalf("state %+v", state)
	}
}

func TestLastJSONBlock(t *testing.T) {
	out := lastJSONBlock("chatter\nmore chatter\n{\"updated\": \"x\"}")
	if out != `{"updated": "x"}` {
		t.Fatalf("got %q", out)
	}
	if lastJSONBlock("no json here") != "no json here" {
		t.Fatal("expected passthrough")
	}
}

func TestLastJSONBlockIgnoresBracesInChatter(t *testing.T) {
	out := lastJSONBlock("warning {something} odd\n{\n  \"updated\": \"x\",\n  \"installers\": {}\n}")
	state, err := ParseDownloadState(out)
	if err != nil {
		t.Fatalf("%v from %q", err, out)
	}
	if state.Updated != "x" {
		t.Fatalf("state %+v", state)
	}
}

func TestInstallerDistributeScript(t *testing.T) {
	manifest := &InstallerManifest{Installers: []Installer{
		{Name: "vs-buildtools", Key: "installers/vs_buildtools.exe", Sha256: "ABC123", Args: []string{"--quiet"}},
		{Name: "ue5-prereqs", Key: "installers/UEPrereqSetup_x64.exe"},
	}}
	script := installerDistributeScript("ue5-installers", manifest)
	for _, want := range []string{
		`Read-S3Object -BucketName "ue5-installers" -Key "installers/vs_buildtools.exe"`,
		`if ($hash -ne "abc123")`,
		`-ArgumentList '--quiet'`,
		`Read-S3Object -BucketName "ue5-installers" -Key "installers/UEPrereqSetup_x64.exe"`,
		`Get-Content "C:\Windows\Temp\download_state.json"`,
	} {
		if !strings.Contains(script, want) {
			t.Fatalf("script missing %q:\n%s", want, script)
		}
	}
	// no checksum pinned for ue5-prereqs, no install args either
	if strings.Count(script, "Get-FileHash") != 1 {
		t.Fatalf("script:\n%s", script)
	}
	if strings.Count(script, "Start-Process") != 1 {
		t.Fatalf("script:\n%s", script)
	}
}

func TestInstallerManifestSha256(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "setup.exe")
	err := os.WriteFile(path, []byte("hello"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	manifest := &InstallerManifest{Installers: []Installer{
		{Name: "a", Key: "k", Source: path},
		{Name: "b", Key: "k2", Source: path, Sha256: "pinned"},
		{Name: "c", Key: "k3"},
	}}
	err = InstallerManifestSha256(manifest)
	if err != nil {
		t.Fatal(err)
	}
	// sha256 of "hello"
	if manifest.Installers[0].Sha256 != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" {
		t.Fatalf("sha256 %s", manifest.Installers[0].Sha256)
	}
	if manifest.Installers[1].Sha256 != "pinned" {
		t.Fatal("pinned checksum overwritten")
	}
	if manifest.Installers[2].Sha256 != "" {
		t.Fatal("sourceless entry got a checksum")
	}
}
