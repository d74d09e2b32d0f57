package lib

import (
	"testing"
)

func TestContains(t *testing.T) {
	if !Contains([]string{"a", "b"}, "b") {
		t.Fatal("expected contains")
	}
	if Contains([]string{"a", "b"}, "c") {
		t.Fatal("expected not contains")
	}
}

func TestLast(t *testing.T) {
	if Last([]string{"a", "b", "c"}) != "c" {
		t.Fatal("expected c")
	}
}

func TestPreviewString(t *testing.T) {
	if PreviewString(false) != "" {
		t.Fatal("expected empty")
	}
	if PreviewString(true) != "preview: " {
		t.Fatal("expected preview prefix")
	}
}
