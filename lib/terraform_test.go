package lib

import (
	"strings"
	"testing"
)

func TestParseTerraformOutputs(t *testing.T) {
	outputs := ParseTerraformOutputs(`{
		"vpc_id": {"sensitive": false, "type": "string", "value": "vpc-123"},
		"instance_ids": {"sensitive": false, "type": ["list", "string"], "value": ["i-1", "i-2"]},
		"port": {"sensitive": false, "type": "number", "value": 8443}
	}`)
	if outputs["vpc_id"] != "vpc-123" {
		t.Fatalf("outputs %v", outputs)
	}
	if outputs["port"] != float64(8443) {
		t.Fatalf("outputs %v", outputs)
	}
	ids, ok := outputs["instance_ids"].([]any)
	if !ok || len(ids) != 2 {
		t.Fatalf("outputs %v", outputs)
	}
}

func TestOutputInstanceIDs(t *testing.T) {
	ids := OutputInstanceIDs(map[string]any{"instance_ids": []any{"i-1", "i-2"}})
	if len(ids) != 2 || ids[0] != "i-1" {
		t.Fatalf("ids %v", ids)
	}
	ids = OutputInstanceIDs(map[string]any{"instance_ids": "i-3"})
	if len(ids) != 1 || ids[0] != "i-3" {
		t.Fatalf("ids %v", ids)
	}
	if len(OutputInstanceIDs(map[string]any{})) != 0 {
		t.Fatal("expected no ids")
	}
}

func TestRenderEnv(t *testing.T) {
	env := RenderEnv(map[string]map[string]any{
		"network": {"vpc-id": "vpc-123", "subnet_ids": []any{"a", "b"}},
		"compute": {"instance_ip": "1.2.3.4", "count": float64(2)},
	})
	lines := strings.Split(strings.TrimSpace(env), "\n")
	want := []string{
		`COMPUTE_COUNT="2"`,
		`COMPUTE_INSTANCE_IP="1.2.3.4"`,
		`NETWORK_VPC_ID="vpc-123"`,
	}
	if len(lines) != len(want) {
		t.Fatalf("env:\n%s", env)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
	if !strings.HasSuffix(env, "\n") {
		t.Fatal("expected trailing newline")
	}
}

func TestTerraformStageDirsRejectsUnknown(t *testing.T) {
	_, err := terraformStageDirs(t.TempDir(), []string{"bogus"})
	if err == nil || !strings.Contains(err.Error(), "unknown stage") {
		t.Fatalf("expected unknown stage error, got %v", err)
	}
}
