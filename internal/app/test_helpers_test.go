package app

import (
	"context"
	"testing"
	"time"

	"github.com/example/rewards/internal/adapters/memory"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/merkle"
	"github.com/example/rewards/internal/ctxutil"
	"github.com/example/rewards/internal/ports/primary"
	"github.com/example/rewards/internal/ports/secondary"
)

const testAsset = "MINT"

var (
	testDeployment = identity.Identity{0xD0}
	testManager    = identity.Identity{0xA1}
	testAgent      = identity.Identity{0xA2}
	testReceiver   = identity.Identity{0xB1}
	testStranger   = identity.Identity{0xEE}
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// as returns a context whose caller is id.
func as(id identity.Identity) context.Context {
	return ctxutil.WithCaller(context.Background(), id)
}

// testServices wires every service against one store.
type testServices struct {
	memory     *memory.Store
	governance *GovernanceServiceImpl
	epochs     *EpochServiceImpl
	claims     *ClaimServiceImpl
	assets     *AssetServiceImpl
	events     *EventServiceImpl
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	return newTestServicesWithStore(t, nil)
}

// newTestServicesWithStore wires the services through wrap(store) so tests
// can inject failures between the services and the memory store.
func newTestServicesWithStore(t *testing.T, wrap func(secondary.Store) secondary.Store) *testServices {
	t.Helper()
	mem := memory.NewStore()
	var store secondary.Store = mem
	if wrap != nil {
		store = wrap(mem)
	}
	clock := fixedClock{now: testNow}
	recorder := NewEventRecorder(clock)
	return &testServices{
		memory:     mem,
		governance: NewGovernanceService(store, recorder, clock, nil),
		epochs:     NewEpochService(store, recorder, clock, nil),
		claims:     NewClaimService(store, recorder, clock, nil),
		assets:     NewAssetService(store, nil),
		events:     NewEventService(mem, clock),
	}
}

// initialize creates the deployment, a zero-decimal asset and funds the manager.
func (s *testServices) initialize(t *testing.T) {
	t.Helper()
	if _, err := s.governance.Initialize(as(testManager), primary.InitializeRequest{
		Deployment:  testDeployment,
		Agent:       testAgent,
		EpochLength: 86400,
	}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := s.assets.CreateAsset(context.Background(), primary.CreateAssetRequest{AssetID: testAsset}); err != nil {
		t.Fatalf("CreateAsset failed: %v", err)
	}
	if _, err := s.assets.Mint(context.Background(), primary.MintRequest{Owner: testManager, AssetID: testAsset, Amount: 1_000_000}); err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
}

func (s *testServices) addEpoch(t *testing.T, root merkle.Hash) *primary.Epoch {
	t.Helper()
	epoch, err := s.epochs.AddEpoch(as(testAgent), primary.AddEpochRequest{
		Deployment: testDeployment,
		Root:       root,
		AssetID:    testAsset,
	})
	if err != nil {
		t.Fatalf("AddEpoch failed: %v", err)
	}
	return epoch
}

func (s *testServices) approve(t *testing.T, epochNr, amount uint64) *primary.Epoch {
	t.Helper()
	epoch, err := s.epochs.ApproveEpoch(as(testManager), primary.ApproveEpochRequest{
		Deployment:    testDeployment,
		EpochNr:       epochNr,
		FundingAmount: amount,
	})
	if err != nil {
		t.Fatalf("ApproveEpoch failed: %v", err)
	}
	return epoch
}

// testTree builds a four-leaf tree where testReceiver holds leaf 3 for 50.
func testTree(t *testing.T) *merkle.Tree {
	t.Helper()
	tree, err := merkle.NewTree([]merkle.Leaf{
		{Index: 0, Receiver: identity.Identity{0xB2}, Amount: 100},
		{Index: 1, Receiver: identity.Identity{0xB3}, Amount: 200},
		{Index: 2, Receiver: identity.Identity{0xB4}, Amount: 300},
		{Index: 3, Receiver: testReceiver, Amount: 50},
	})
	if err != nil {
		t.Fatalf("NewTree failed: %v", err)
	}
	return tree
}

func proofFor(t *testing.T, tree *merkle.Tree, index uint64) []merkle.Hash {
	t.Helper()
	pos, ok := tree.Find(index)
	if !ok {
		t.Fatalf("leaf %d not in tree", index)
	}
	proof, err := tree.Proof(pos)
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	return proof
}

func claimRequest(t *testing.T, tree *merkle.Tree, epochNr, index uint64) primary.ClaimRequest {
	t.Helper()
	pos, _ := tree.Find(index)
	return primary.ClaimRequest{
		Deployment: testDeployment,
		EpochNr:    epochNr,
		LeafIndex:  index,
		Amount:     tree.Leaf(pos).Amount,
		Proof:      proofFor(t, tree, index),
		AssetID:    testAsset,
	}
}
