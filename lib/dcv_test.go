package lib

import (
	"strings"
	"testing"
)

func TestDcvDownloadURL(t *testing.T) {
	url := dcvDownloadURL("2023.1-16388")
	want := "https://d1uj6qtbmh3dt5.cloudfront.net/2023.1/Servers/nice-dcv-server-x64-Release-2023.1-16388.msi"
	if url != want {
		t.Fatalf("got %s", url)
	}
}

func TestDcvScripts(t *testing.T) {
	download := dcvDownloadScript(DCVDefaultVersion)
	if !strings.Contains(download, "Invoke-WebRequest") || !strings.Contains(download, DCVDefaultVersion) {
		t.Fatalf("download script:\n%s", download)
	}
	install := dcvInstallScript()
	if !strings.Contains(install, "msiexec.exe") || !strings.Contains(install, "/quiet") {
		t.Fatalf("install script:\n%s", install)
	}
	configure := dcvConfigureScript()
	for _, want := range []string{"Protocol TCP", "Protocol UDP", "8443", "enable-quic-frontend", "Restart-Service dcvserver"} {
		if !strings.Contains(configure, want) {
			t.Fatalf("configure script missing %q:\n%s", want, configure)
		}
	}
}

func TestDcvSessionScriptIdempotent(t *testing.T) {
	script := dcvSessionScript("console", "Administrator")
	if !strings.Contains(script, `-notmatch "'console'"`) {
		t.Fatalf("session script should only create when absent:\n%s", script)
	}
	if !strings.Contains(script, `create-session --owner "Administrator" "console"`) {
		t.Fatalf("session script:\n%s", script)
	}
}
