package lib

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-password/password"
)

const (
	dcvStageTimeout = 10 * time.Minute

	// pinned server build from the regional NICE download bucket
	DCVDefaultVersion = "2023.1-16388"
)

func dcvDownloadURL(version string) string {
	series := strings.Split(version, "-")[0]
	return fmt.Sprintf("https://d1uj6qtbmh3dt5.cloudfront.net/%s/Servers/nice-dcv-server-x64-Release-%s.msi", series, version)
}

func dcvDownloadScript(version string) string {
	return strings.Join([]string{
		`$ProgressPreference = "SilentlyContinue"`,
		fmt.Sprintf(`Invoke-WebRequest -Uri "%s" -OutFile "C:\Windows\Temp\nice-dcv-server.msi"`, dcvDownloadURL(version)),
		`(Get-Item "C:\Windows\Temp\nice-dcv-server.msi").Length`,
	}, "\n")
}

func dcvInstallScript() string {
	return strings.Join([]string{
		`$proc = Start-Process msiexec.exe -ArgumentList '/i','C:\Windows\Temp\nice-dcv-server.msi','/quiet','/norestart','/l*v','C:\Windows\Temp\dcv-install.log','ADDLOCAL=ALL','AUTOMATIC_SESSION_OWNER=Administrator' -Wait -PassThru`,
		`if ($proc.ExitCode -ne 0) { throw "msiexec exit code $($proc.ExitCode)" }`,
		`Write-Output "installed"`,
	}, "\n")
}

func dcvConfigureScript() string {
	return strings.Join([]string{
		`New-NetFirewallRule -DisplayName "NICE DCV TCP" -Direction Inbound -Protocol TCP -LocalPort 8443 -Action Allow -ErrorAction SilentlyContinue | Out-Null`,
		`New-NetFirewallRule -DisplayName "NICE DCV UDP" -Direction Inbound -Protocol UDP -LocalPort 8443 -Action Allow -ErrorAction SilentlyContinue | Out-Null`,
		`New-ItemProperty -Path "Microsoft.PowerShell.Core\Registry::HKEY_USERS\S-1-5-18\Software\GSettings\com\nicesoftware\dcv\connectivity" -Name enable-quic-frontend -PropertyType DWord -Value 1 -Force | Out-Null`,
		`Restart-Service dcvserver`,
		`Write-Output "configured"`,
	}, "\n")
}

func dcvSessionScript(session, owner string) string {
	return strings.Join([]string{
		`& "C:\Program Files\NICE\DCV\Server\bin\dcv.exe" list-sessions 2>$null | Out-String -OutVariable sessions | Out-Null`,
		fmt.Sprintf(`if ($sessions -notmatch "'%s'") { & "C:\Program Files\NICE\DCV\Server\bin\dcv.exe" create-session --owner "%s" "%s" }`, session, owner, session),
		`& "C:\Program Files\NICE\DCV\Server\bin\dcv.exe" list-sessions`,
	}, "\n")
}

func dcvStatusScript() string {
	return strings.Join([]string{
		`(Get-Service dcvserver).Status`,
		`& "C:\Program Files\NICE\DCV\Server\bin\dcv.exe" list-sessions 2>$null`,
		`(Get-NetTCPConnection -LocalPort 8443 -State Listen -ErrorAction SilentlyContinue | Measure-Object).Count`,
	}, "\n")
}

// DCVInstall runs the staged install pipeline on a Windows instance, one SSM
// command per stage so a failure points at the stage that broke.
func DCVInstall(ctx context.Context, instanceID, version string) error {
	if version == "" {
		version = DCVDefaultVersion
	}
	err := SSMWaitOnline(ctx, []string{instanceID}, 5*time.Minute)
	if err != nil {
		return err
	}
	stages := []struct {
		name   string
		script string
	}{
		{"download", dcvDownloadScript(version)},
		{"install", dcvInstallScript()},
		{"configure", dcvConfigureScript()},
	}
	for _, stage := range stages {
		Logger.Println("dcv", stage.name+":", instanceID)
		_, err := SSMRunAndWait(ctx, instanceID, stage.script, dcvStageTimeout)
		if err != nil {
			Logger.Println("error:", fmt.Errorf("dcv %s stage: %w", stage.name, err))
			return err
		}
		Logger.Println(Green("dcv "+stage.name+" ok:"), instanceID)
	}
	return nil
}

// DCVEnsureSession creates the session if the server does not already list it.
func DCVEnsureSession(ctx context.Context, instanceID, session, owner string) (string, error) {
	if session == "" {
		session = "console"
	}
	if owner == "" {
		owner = "Administrator"
	}
	out, err := SSMRunAndWait(ctx, instanceID, dcvSessionScript(session, owner), dcvStageTimeout)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// DCVPassword generates a fresh password for the session owner and sets it on
// the windows account. Printed once by the caller, never logged.
func DCVPassword(ctx context.Context, instanceID, user string) (string, error) {
	if user == "" {
		user = "Administrator"
	}
	pw, err := password.Generate(24, 6, 4, false, false)
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	script := strings.Join([]string{
		fmt.Sprintf(`$pw = ConvertTo-SecureString -String '%s' -AsPlainText -Force`, strings.ReplaceAll(pw, "'", "''")),
		fmt.Sprintf(`Set-LocalUser -Name "%s" -Password $pw`, user),
		`Write-Output "password set"`,
	}, "\n")
	_, err = SSMRunAndWait(ctx, instanceID, script, dcvStageTimeout)
	if err != nil {
		return "", err
	}
	return pw, nil
}

type DCVStatus struct {
	Service   string
	Sessions  []string
	Listening bool
}

func DCVGetStatus(ctx context.Context, instanceID string) (*DCVStatus, error) {
	out, err := SSMRunAndWait(ctx, instanceID, dcvStatusScript(), dcvStageTimeout)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	status := &DCVStatus{}
	for i, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case i == 0:
			status.Service = line
		case i == len(lines)-1:
			status.Listening = line != "0"
		case strings.HasPrefix(line, "Session:"):
			status.Sessions = append(status.Sessions, line)
		}
	}
	return status, nil
}
