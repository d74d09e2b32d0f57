package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/r3labs/diff/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// TerraformStages is the fixed apply order. Compute depends on network,
// services depend on both.
var TerraformStages = []string{"network", "compute", "services"}

func terraformRun(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "terraform", args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr
	var out strings.Builder
	cmd.Stdout = io.MultiWriter(os.Stdout, &out)
	Logger.Println("terraform", strings.Join(args, " "), "in:", dir)
	err := cmd.Run()
	if err != nil {
		Logger.Println("error:", err)
		return out.String(), err
	}
	return out.String(), nil
}

func terraformRunQuiet(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "terraform", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	return string(out), nil
}

func terraformStageDirs(root string, stages []string) ([]string, error) {
	if len(stages) == 0 {
		stages = TerraformStages
	}
	var dirs []string
	for _, stage := range stages {
		if !Contains(TerraformStages, stage) {
			err := fmt.Errorf("unknown stage %s, stages are: %s", stage, strings.Join(TerraformStages, " "))
			Logger.Println("error:", err)
			return nil, err
		}
		dir := filepath.Join(root, stage)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			err := fmt.Errorf("stage dir missing: %s", dir)
			Logger.Println("error:", err)
			return nil, err
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

// DeployApply runs init+apply per stage in order, stopping at the first
// failing stage. Later stages are untouched when an earlier one fails.
func DeployApply(ctx context.Context, root string, stages []string, autoApprove bool) error {
	dirs, err := terraformStageDirs(root, stages)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		_, err := terraformRun(ctx, dir, "init", "-input=false")
		if err != nil {
			return fmt.Errorf("init failed in %s: %w", dir, err)
		}
		args := []string{"apply", "-input=false"}
		if autoApprove {
			args = append(args, "-auto-approve")
		}
		_, err = terraformRun(ctx, dir, args...)
		if err != nil {
			return fmt.Errorf("apply failed in %s, later stages not run: %w", dir, err)
		}
		Logger.Println(Green("applied:"), dir)
	}
	return nil
}

func DeployPlan(ctx context.Context, root string, stages []string) error {
	dirs, err := terraformStageDirs(root, stages)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		_, err := terraformRun(ctx, dir, "init", "-input=false")
		if err != nil {
			return err
		}
		_, err = terraformRun(ctx, dir, "plan", "-input=false")
		if err != nil {
			return err
		}
	}
	return nil
}

// DeployDestroy tears stages down in reverse order.
func DeployDestroy(ctx context.Context, root string, stages []string, autoApprove bool) error {
	dirs, err := terraformStageDirs(root, stages)
	if err != nil {
		return err
	}
	for i := len(dirs) - 1; i >= 0; i-- {
		args := []string{"destroy", "-input=false"}
		if autoApprove {
			args = append(args, "-auto-approve")
		}
		_, err := terraformRun(ctx, dirs[i], args...)
		if err != nil {
			return fmt.Errorf("destroy failed in %s: %w", dirs[i], err)
		}
	}
	return nil
}

// DeployOutputs returns the flattened outputs of one stage via
// `terraform output -json`.
func DeployOutputs(ctx context.Context, root, stage string) (map[string]any, error) {
	dirs, err := terraformStageDirs(root, []string{stage})
	if err != nil {
		return nil, err
	}
	out, err := terraformRunQuiet(ctx, dirs[0], "output", "-json")
	if err != nil {
		return nil, err
	}
	return ParseTerraformOutputs(out), nil
}

// ParseTerraformOutputs flattens terraform's {name: {value, type, sensitive}}
// shape into name -> value.
func ParseTerraformOutputs(outputJSON string) map[string]any {
	outputs := make(map[string]any)
	gjson.Parse(outputJSON).ForEach(func(key, value gjson.Result) bool {
		outputs[key.String()] = value.Get("value").Value()
		return true
	})
	return outputs
}

// OutputInstanceIDs pulls the instance_ids output, tolerating a single string
// or a list.
func OutputInstanceIDs(outputs map[string]any) []string {
	var ids []string
	switch v := outputs["instance_ids"].(type) {
	case string:
		ids = append(ids, v)
	case []any:
		for _, x := range v {
			s, ok := x.(string)
			if ok {
				ids = append(ids, s)
			}
		}
	}
	return ids
}

// DeployWaitReady waits for the instances named in stage outputs to be
// running, checks passed, and ssm online.
func DeployWaitReady(ctx context.Context, root, stage string, timeout time.Duration) error {
	outputs, err := DeployOutputs(ctx, root, stage)
	if err != nil {
		return err
	}
	ids := OutputInstanceIDs(outputs)
	if len(ids) == 0 {
		err := fmt.Errorf("stage %s has no instance_ids output", stage)
		Logger.Println("error:", err)
		return err
	}
	err = EC2WaitStatusOk(ctx, ids, timeout)
	if err != nil {
		return err
	}
	return SSMWaitOnline(ctx, ids, timeout)
}

// Snapshot is the combined outputs of all stages, written as .json, .yaml,
// and .env next to each other. Write-only artifacts, nothing reads them back
// except the differ on the next snapshot.
type Snapshot struct {
	Taken   string                    `json:"taken"   yaml:"taken"`
	Outputs map[string]map[string]any `json:"outputs" yaml:"outputs"`
}

func DeploySnapshot(ctx context.Context, root, outPrefix string) error {
	snapshot := &Snapshot{
		Taken:   time.Now().UTC().Format(time.RFC3339),
		Outputs: make(map[string]map[string]any),
	}
	for _, stage := range TerraformStages {
		outputs, err := DeployOutputs(ctx, root, stage)
		if err != nil {
			return err
		}
		snapshot.Outputs[stage] = outputs
	}
	previous, _ := readSnapshot(outPrefix + ".json")
	if previous != nil {
		changes, err := diff.Diff(previous.Outputs, snapshot.Outputs)
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		for _, change := range changes {
			Logger.Println(Yellow(change.Type+":"), strings.Join(change.Path, "."), change.From, "=>", change.To)
		}
		if len(changes) == 0 {
			Logger.Println("no output changes since last snapshot")
		}
	}
	return writeSnapshot(snapshot, outPrefix)
}

func readSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	snapshot := &Snapshot{}
	err = json.Unmarshal(data, snapshot)
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func writeSnapshot(snapshot *Snapshot, outPrefix string) error {
	jsonData, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	yamlData, err := yaml.Marshal(snapshot)
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	for path, data := range map[string][]byte{
		outPrefix + ".json": jsonData,
		outPrefix + ".yaml": yamlData,
		outPrefix + ".env":  []byte(RenderEnv(snapshot.Outputs)),
	} {
		err := os.WriteFile(path, data, 0644)
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		Logger.Println("wrote:", path)
	}
	return nil
}

// RenderEnv renders STAGE_NAME=value lines, uppercased, scalars only, sorted
// so snapshots diff cleanly.
func RenderEnv(outputs map[string]map[string]any) string {
	var lines []string
	for stage, values := range outputs {
		for name, value := range values {
			switch value.(type) {
			case map[string]any, []any, nil:
				continue
			}
			key := strings.ToUpper(strings.ReplaceAll(stage+"_"+name, "-", "_"))
			lines = append(lines, fmt.Sprintf("%s=%q", key, fmt.Sprint(value)))
		}
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n") + "\n"
}
