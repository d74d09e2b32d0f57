package lib

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/semaphore"
	"gopkg.in/yaml.v3"
)

const (
	installerStateFile = `C:\Windows\Temp\download_state.json`
	installerDir       = `C:\Installers`
	installerTimeout   = 30 * time.Minute
)

// Installer is one entry of installers.yaml.
type Installer struct {
	Name   string   `yaml:"name"`
	Key    string   `yaml:"key"`
	Source string   `yaml:"source,omitempty"`
	Sha256 string   `yaml:"sha256,omitempty"`
	Args   []string `yaml:"args,omitempty"`
}

type InstallerManifest struct {
	Installers []Installer `yaml:"installers"`
}

func InstallerReadManifest(path string) (*InstallerManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return InstallerParseManifest(data)
}

func InstallerParseManifest(data []byte) (*InstallerManifest, error) {
	manifest := &InstallerManifest{}
	err := yaml.Unmarshal(data, manifest)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	seen := make(map[string]bool)
	for _, installer := range manifest.Installers {
		if installer.Name == "" || installer.Key == "" {
			err := fmt.Errorf("installer entries need name and key: %+v", installer)
			Logger.Println("error:", err)
			return nil, err
		}
		if seen[installer.Name] {
			err := fmt.Errorf("duplicate installer name: %s", installer.Name)
			Logger.Println("error:", err)
			return nil, err
		}
		seen[installer.Name] = true
	}
	return manifest, nil
}

func fileSha256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	h := sha256.New()
	_, err = io.Copy(h, f)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// InstallerUpload puts each manifest entry with a local source into the
// bucket, skipping objects whose remote size already matches.
func InstallerUpload(ctx context.Context, bucket string, manifest *InstallerManifest) error {
	err := S3EnsureBucket(ctx, bucket, false)
	if err != nil {
		return err
	}
	for _, installer := range manifest.Installers {
		if installer.Source == "" {
			continue
		}
		info, err := os.Stat(installer.Source)
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		head, err := S3Head(ctx, bucket, installer.Key)
		if err == nil && head.ContentLength != nil && *head.ContentLength == info.Size() {
			Logger.Println("unchanged:", installer.Name, humanize.Bytes(uint64(info.Size())))
			continue
		}
		Logger.Println("uploading:", installer.Name, humanize.Bytes(uint64(info.Size())))
		err = S3PutFile(ctx, bucket, installer.Key, installer.Source)
		if err != nil {
			return err
		}
		Logger.Println(Green("uploaded:"), fmt.Sprintf("s3://%s/%s", bucket, installer.Key))
	}
	return nil
}

// DownloadState is the progress file the distribution script maintains on
// the instance. Written there, read back here through command output.
type DownloadState struct {
	Updated    string                   `json:"updated"`
	Installers map[string]DownloadEntry `json:"installers"`
}

type DownloadEntry struct {
	Status string `json:"status"`
	Sha256 string `json:"sha256,omitempty"`
	Error  string `json:"error,omitempty"`
}

func ParseDownloadState(data string) (*DownloadState, error) {
	state := &DownloadState{}
	err := json.Unmarshal([]byte(data), state)
	if err != nil {
		return nil, err
	}
	return state, nil
}

// installerDistributeScript downloads every object, verifies checksums when
// the manifest pins one, runs installer args, and keeps download_state.json
// current after each step.
func installerDistributeScript(bucket string, manifest *InstallerManifest) string {
	var b strings.Builder
	b.WriteString(`$ProgressPreference = "SilentlyContinue"` + "\n")
	b.WriteString(`New-Item -ItemType Directory -Force -Path "` + installerDir + `" | Out-Null` + "\n")
	b.WriteString(`$state = @{ updated = (Get-Date -Format o); installers = @{} }` + "\n")
	b.WriteString(`function Save-State { $state.updated = (Get-Date -Format o); $state | ConvertTo-Json -Depth 4 | Set-Content "` + installerStateFile + `" }` + "\n")
	for _, installer := range manifest.Installers {
		local := fmt.Sprintf(`%s\%s`, installerDir, installer.Name)
		b.WriteString(fmt.Sprintf(`$state.installers["%s"] = @{ status = "downloading" }; Save-State`+"\n", installer.Name))
		b.WriteString(`try {` + "\n")
		b.WriteString(fmt.Sprintf(`  Read-S3Object -BucketName "%s" -Key "%s" -File "%s" | Out-Null`+"\n", bucket, installer.Key, local))
		if installer.Sha256 != "" {
			b.WriteString(fmt.Sprintf(`  $hash = (Get-FileHash -Algorithm SHA256 "%s").Hash.ToLower()`+"\n", local))
			b.WriteString(fmt.Sprintf(`  if ($hash -ne "%s") { throw "sha256 mismatch: $hash" }`+"\n", strings.ToLower(installer.Sha256)))
			b.WriteString(fmt.Sprintf(`  $state.installers["%s"].sha256 = $hash`+"\n", installer.Name))
		}
		if len(installer.Args) > 0 {
			b.WriteString(fmt.Sprintf(`  $state.installers["%s"].status = "installing"; Save-State`+"\n", installer.Name))
			b.WriteString(fmt.Sprintf(`  $proc = Start-Process "%s" -ArgumentList '%s' -Wait -PassThru`+"\n", local, strings.Join(installer.Args, "','")))
			b.WriteString(`  if ($proc.ExitCode -ne 0) { throw "installer exit code $($proc.ExitCode)" }` + "\n")
		}
		b.WriteString(fmt.Sprintf(`  $state.installers["%s"].status = "done"; Save-State`+"\n", installer.Name))
		b.WriteString(`} catch {` + "\n")
		b.WriteString(fmt.Sprintf(`  $state.installers["%s"].status = "failed"; $state.installers["%s"].error = "$_"; Save-State; throw`+"\n", installer.Name, installer.Name))
		b.WriteString(`}` + "\n")
	}
	b.WriteString(`Get-Content "` + installerStateFile + `"` + "\n")
	return b.String()
}

// InstallerDistribute fans the manifest out to every instance with bounded
// parallelism. Failures do not stop the other instances, errors are joined.
func InstallerDistribute(ctx context.Context, bucket string, manifest *InstallerManifest, instanceIDs []string, concurrency int) (map[string]*DownloadState, error) {
	if concurrency < 1 {
		concurrency = 4
	}
	err := SSMWaitOnline(ctx, instanceIDs, 5*time.Minute)
	if err != nil {
		return nil, err
	}
	script := installerDistributeScript(bucket, manifest)
	sem := semaphore.NewWeighted(int64(concurrency))
	var lock sync.Mutex
	states := make(map[string]*DownloadState)
	var errs []error
	var wg sync.WaitGroup
	for _, instanceID := range instanceIDs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := sem.Acquire(ctx, 1)
			if err != nil {
				lock.Lock()
				errs = append(errs, err)
				lock.Unlock()
				return
			}
			defer sem.Release(1)
			Logger.Println("distributing to:", instanceID)
			out, err := SSMRunAndWait(ctx, instanceID, script, installerTimeout)
			lock.Lock()
			defer lock.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", instanceID, err))
				return
			}
			state, err := ParseDownloadState(lastJSONBlock(out))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: parsing download state: %w", instanceID, err))
				return
			}
			states[instanceID] = state
			Logger.Println(Green("distributed to:"), instanceID)
		}()
	}
	wg.Wait()
	if len(errs) > 0 {
		return states, errors.Join(errs...)
	}
	return states, nil
}

// lastJSONBlock trims any script chatter that precedes the state file dump.
// Chatter may itself contain braces, so scan backwards for the line that opens
// the final json document.
func lastJSONBlock(out string) string {
	lines := strings.Split(out, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "{") {
			return strings.Join(lines[i:], "\n")
		}
	}
	return out
}

// InstallerStatus fetches the state file from one instance.
func InstallerStatus(ctx context.Context, instanceID string) (*DownloadState, error) {
	out, err := SSMRunAndWait(ctx, instanceID, `Get-Content "`+installerStateFile+`"`, 2*time.Minute)
	if err != nil {
		return nil, err
	}
	state, err := ParseDownloadState(lastJSONBlock(out))
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return state, nil
}

// InstallerManifestSha256 fills in missing checksums from local sources, for
// writing a pinned manifest back to disk.
func InstallerManifestSha256(manifest *InstallerManifest) error {
	for i, installer := range manifest.Installers {
		if installer.Source == "" || installer.Sha256 != "" {
			continue
		}
		sum, err := fileSha256(installer.Source)
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		manifest.Installers[i].Sha256 = sum
	}
	return nil
}
