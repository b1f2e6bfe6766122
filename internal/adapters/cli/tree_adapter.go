package cli

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/example/rewards/internal/core/merkle"
)

// Manifest is a distribution file listing the entitlements of one epoch.
//
//	leaves:
//	  - index: 0
//	    receiver: 4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi
//	    amount: 100
type Manifest struct {
	Leaves []merkle.Leaf `yaml:"leaves"`
}

// ProofDocument is the output of TreeAdapter.Proof, ready to pass to a claim.
type ProofDocument struct {
	Root   merkle.Hash   `yaml:"root"`
	Index  uint64        `yaml:"index"`
	Amount uint64        `yaml:"amount"`
	Proof  []merkle.Hash `yaml:"proof"`
}

// ReadManifest decodes a manifest and rejects duplicate leaf indexes.
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	seen := make(map[uint64]bool, len(m.Leaves))
	for _, l := range m.Leaves {
		if seen[l.Index] {
			return nil, fmt.Errorf("duplicate leaf index %d in manifest", l.Index)
		}
		seen[l.Index] = true
	}
	return &m, nil
}

// ReadProofDocument decodes the output of TreeAdapter.Proof.
func ReadProofDocument(r io.Reader) (*ProofDocument, error) {
	var doc ProofDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse proof: %w", err)
	}
	return &doc, nil
}

// TreeAdapter builds reference trees from manifests.
type TreeAdapter struct {
	out io.Writer
}

// NewTreeAdapter creates a new TreeAdapter.
func NewTreeAdapter(out io.Writer) *TreeAdapter {
	return &TreeAdapter{out: out}
}

// Root prints the root committed by a manifest.
func (a *TreeAdapter) Root(r io.Reader) (merkle.Hash, error) {
	tree, err := buildTree(r)
	if err != nil {
		return merkle.Hash{}, err
	}

	fmt.Fprintln(a.out, tree.Root())
	return tree.Root(), nil
}

// Proof prints a proof document for the leaf with the given index.
func (a *TreeAdapter) Proof(r io.Reader, index uint64) (*ProofDocument, error) {
	tree, err := buildTree(r)
	if err != nil {
		return nil, err
	}

	pos, ok := tree.Find(index)
	if !ok {
		return nil, fmt.Errorf("leaf %d not in manifest", index)
	}
	proof, err := tree.Proof(pos)
	if err != nil {
		return nil, err
	}

	doc := &ProofDocument{
		Root:   tree.Root(),
		Index:  index,
		Amount: tree.Leaf(pos).Amount,
		Proof:  proof,
	}
	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode proof: %w", err)
	}
	return doc, enc.Close()
}

func buildTree(r io.Reader) (*merkle.Tree, error) {
	m, err := ReadManifest(r)
	if err != nil {
		return nil, err
	}
	return merkle.NewTree(m.Leaves)
}
