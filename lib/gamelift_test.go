package lib

import (
	"testing"
)

func TestChunkStrings(t *testing.T) {
	chunks := chunkStrings([]string{"a", "b", "c", "d", "e"}, 2)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks", len(chunks))
	}
	if len(chunks[0]) != 2 || len(chunks[2]) != 1 {
		t.Fatalf("chunks %v", chunks)
	}
	if len(chunkStrings(nil, 2)) != 0 {
		t.Fatal("expected no chunks")
	}
}
