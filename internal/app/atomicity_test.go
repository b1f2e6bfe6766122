package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/ports/primary"
	"github.com/example/rewards/internal/ports/secondary"
)

var errInjected = errors.New("injected failure")

// faultyStore wraps a store and fails selected steps inside a transaction.
type faultyStore struct {
	secondary.Store
	failTransfer bool
	failOutbox   bool
}

func (s *faultyStore) WithinTx(ctx context.Context, fn func(tx secondary.Tx) error) error {
	return s.Store.WithinTx(ctx, func(tx secondary.Tx) error {
		return fn(&faultyTx{Tx: tx, store: s})
	})
}

type faultyTx struct {
	secondary.Tx
	store *faultyStore
}

func (t *faultyTx) Assets() secondary.AssetLedger {
	return &faultyLedger{AssetLedger: t.Tx.Assets(), store: t.store}
}

func (t *faultyTx) Outbox() secondary.OutboxWriter {
	return &faultyOutbox{OutboxWriter: t.Tx.Outbox(), store: t.store}
}

type faultyLedger struct {
	secondary.AssetLedger
	store *faultyStore
}

func (l *faultyLedger) Transfer(ctx context.Context, from, to identity.Identity, amount uint64, authority identity.Identity) error {
	if l.store.failTransfer {
		return errInjected
	}
	return l.AssetLedger.Transfer(ctx, from, to, amount, authority)
}

type faultyOutbox struct {
	secondary.OutboxWriter
	store *faultyStore
}

func (o *faultyOutbox) Append(ctx context.Context, message *secondary.OutboxMessage) error {
	if o.store.failOutbox {
		return errInjected
	}
	return o.OutboxWriter.Append(ctx, message)
}

func newFaultyServices(t *testing.T) (*testServices, *faultyStore) {
	t.Helper()
	var faulty *faultyStore
	s := newTestServicesWithStore(t, func(inner secondary.Store) secondary.Store {
		faulty = &faultyStore{Store: inner}
		return faulty
	})
	return s, faulty
}

func TestAtomicity_ClaimTransferFailureLeavesNoState(t *testing.T) {
	s, faulty := newFaultyServices(t)
	s.initialize(t)
	tree := testTree(t)
	s.addEpoch(t, tree.Root())
	s.approve(t, 1, 1000)

	faulty.failTransfer = true
	_, err := s.claims.Claim(as(testReceiver), claimRequest(t, tree, 1, 3))
	if !errors.Is(err, errInjected) {
		t.Fatalf("expected injected failure, got %v", err)
	}

	ctx := context.Background()
	status, _ := s.claims.GetClaimStatus(ctx, primary.ClaimStatusRequest{Deployment: testDeployment, EpochNr: 1, LeafIndex: 3})
	if status.Claimed {
		t.Error("claim record persisted despite failed transfer")
	}
	epoch, _ := s.epochs.GetEpoch(ctx, testDeployment, 1)
	if epoch.TotalAmountClaimed != 0 || epoch.NumNodesClaimed != 0 {
		t.Errorf("counters moved despite failed transfer: %d/%d", epoch.TotalAmountClaimed, epoch.NumNodesClaimed)
	}
	evs, _ := s.events.ListEvents(ctx, primary.EventFilters{EventType: "claimed"})
	if len(evs) != 0 {
		t.Errorf("claimed event persisted despite failed transfer")
	}

	faulty.failTransfer = false
	if _, err := s.claims.Claim(as(testReceiver), claimRequest(t, tree, 1, 3)); err != nil {
		t.Fatalf("resubmitted claim failed: %v", err)
	}
}

func TestAtomicity_ClaimOutboxFailureRollsBackPayout(t *testing.T) {
	s, faulty := newFaultyServices(t)
	s.initialize(t)
	tree := testTree(t)
	s.addEpoch(t, tree.Root())
	s.approve(t, 1, 1000)

	faulty.failOutbox = true
	if _, err := s.claims.Claim(as(testReceiver), claimRequest(t, tree, 1, 3)); !errors.Is(err, errInjected) {
		t.Fatalf("expected injected failure, got %v", err)
	}

	balance, _ := s.assets.Balance(context.Background(), testReceiver, testAsset)
	if balance.Balance != 0 {
		t.Errorf("payout persisted despite failed notification: %d", balance.Balance)
	}
}

func TestAtomicity_ApproveTransferFailureKeepsDraft(t *testing.T) {
	s, faulty := newFaultyServices(t)
	s.initialize(t)
	s.addEpoch(t, testTree(t).Root())

	faulty.failTransfer = true
	_, err := s.epochs.ApproveEpoch(as(testManager), primary.ApproveEpochRequest{Deployment: testDeployment, EpochNr: 1, FundingAmount: 1000})
	if !errors.Is(err, errInjected) {
		t.Fatalf("expected injected failure, got %v", err)
	}

	ctx := context.Background()
	epoch, _ := s.epochs.GetEpoch(ctx, testDeployment, 1)
	if epoch.IsApproved || epoch.FundedAmount != 0 {
		t.Errorf("epoch changed despite failed funding: %+v", epoch)
	}
	gov, _ := s.governance.GetGovernance(ctx, testDeployment)
	if gov.CurrentApprovedEpoch != 0 {
		t.Errorf("current approved epoch moved to %d", gov.CurrentApprovedEpoch)
	}
}

func TestAtomicity_GovernanceOutboxFailure(t *testing.T) {
	s, faulty := newFaultyServices(t)
	s.initialize(t)

	faulty.failOutbox = true
	if err := s.governance.Pause(as(testManager), testDeployment); !errors.Is(err, errInjected) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	gov, _ := s.governance.GetGovernance(context.Background(), testDeployment)
	if gov.IsPaused {
		t.Error("pause persisted despite failed notification")
	}
}
