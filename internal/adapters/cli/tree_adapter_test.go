package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/merkle"
)

func manifestYAML(leaves ...merkle.Leaf) string {
	var b strings.Builder
	b.WriteString("leaves:\n")
	for _, l := range leaves {
		fmt.Fprintf(&b, "  - index: %d\n    receiver: %s\n    amount: %d\n", l.Index, l.Receiver, l.Amount)
	}
	return b.String()
}

var testLeaves = []merkle.Leaf{
	{Index: 0, Receiver: identity.Identity{0xB1}, Amount: 100},
	{Index: 1, Receiver: identity.Identity{0xB2}, Amount: 200},
	{Index: 2, Receiver: identity.Identity{0xB3}, Amount: 300},
}

func TestTreeAdapter_Root(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewTreeAdapter(&buf)

	root, err := adapter.Root(strings.NewReader(manifestYAML(testLeaves...)))
	if err != nil {
		t.Fatalf("Root failed: %v", err)
	}

	tree, _ := merkle.NewTree(testLeaves)
	if root != tree.Root() {
		t.Errorf("expected root %s, got %s", tree.Root(), root)
	}
	if strings.TrimSpace(buf.String()) != tree.Root().String() {
		t.Errorf("expected root printed, got: %s", buf.String())
	}
}

func TestTreeAdapter_ProofVerifies(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewTreeAdapter(&buf)

	doc, err := adapter.Proof(strings.NewReader(manifestYAML(testLeaves...)), 2)
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	leaf := merkle.LeafHash(2, identity.Identity{0xB3}, 300)
	if !merkle.Verify(doc.Proof, doc.Root, leaf) {
		t.Error("emitted proof does not verify")
	}

	// The printed document parses back to the same proof.
	parsed, err := ReadProofDocument(&buf)
	if err != nil {
		t.Fatalf("ReadProofDocument failed: %v", err)
	}
	if parsed.Root != doc.Root || parsed.Amount != 300 || len(parsed.Proof) != len(doc.Proof) {
		t.Errorf("round trip mismatch: %+v vs %+v", parsed, doc)
	}
}

func TestTreeAdapter_Errors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		index    uint64
	}{
		{name: "missing leaf", manifest: manifestYAML(testLeaves...), index: 9},
		{name: "duplicate index", manifest: manifestYAML(testLeaves[0], testLeaves[0]), index: 0},
		{name: "empty manifest", manifest: "leaves: []\n", index: 0},
		{name: "bad receiver", manifest: "leaves:\n  - index: 0\n    receiver: not-base58!\n    amount: 1\n", index: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			adapter := NewTreeAdapter(&buf)
			if _, err := adapter.Proof(strings.NewReader(tt.manifest), tt.index); err == nil {
				t.Error("expected error")
			}
		})
	}
}
