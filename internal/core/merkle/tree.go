package merkle

import (
	"errors"
	"fmt"

	"github.com/example/rewards/internal/core/identity"
)

// Leaf is a single entitlement committed into a tree.
type Leaf struct {
	Index    uint64            `yaml:"index" json:"index"`
	Receiver identity.Identity `yaml:"receiver" json:"receiver"`
	Amount   uint64            `yaml:"amount" json:"amount"`
}

// Hash returns the leaf digest.
func (l Leaf) Hash() Hash {
	return LeafHash(l.Index, l.Receiver, l.Amount)
}

// ErrEmptyTree is returned when building a tree without leaves.
var ErrEmptyTree = errors.New("merkle tree needs at least one leaf")

// Tree is a reference builder for the sorted-pair convention.
// An odd node at the end of a level is promoted to the next level unchanged.
type Tree struct {
	leaves []Leaf
	layers [][]Hash
}

// NewTree builds a tree over leaves in the given order.
func NewTree(leaves []Leaf) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}

	level := make([]Hash, len(leaves))
	for i, l := range leaves {
		level[i] = l.Hash()
	}

	layers := [][]Hash{level}
	for len(level) > 1 {
		next := make([]Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, HashPair(level[i], level[i+1]))
			} else {
				next = append(next, level[i])
			}
		}
		layers = append(layers, next)
		level = next
	}

	return &Tree{leaves: append([]Leaf(nil), leaves...), layers: layers}, nil
}

// Root returns the committed root digest.
func (t *Tree) Root() Hash {
	top := t.layers[len(t.layers)-1]
	return top[0]
}

// Len returns the number of leaves.
func (t *Tree) Len() int {
	return len(t.leaves)
}

// Leaf returns the leaf at position pos.
func (t *Tree) Leaf(pos int) Leaf {
	return t.leaves[pos]
}

// Proof returns the sibling path for the leaf at position pos.
func (t *Tree) Proof(pos int) ([]Hash, error) {
	if pos < 0 || pos >= len(t.leaves) {
		return nil, fmt.Errorf("leaf position %d out of range [0,%d)", pos, len(t.leaves))
	}

	var proof []Hash
	for _, layer := range t.layers[:len(t.layers)-1] {
		sibling := pos ^ 1
		if sibling < len(layer) {
			proof = append(proof, layer[sibling])
		}
		pos /= 2
	}
	return proof, nil
}

// Find returns the position of the leaf with the given index.
func (t *Tree) Find(index uint64) (int, bool) {
	for pos, l := range t.leaves {
		if l.Index == index {
			return pos, true
		}
	}
	return 0, false
}
