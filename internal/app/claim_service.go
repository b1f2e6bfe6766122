package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	coreclaim "github.com/example/rewards/internal/core/claim"
	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/events"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/keys"
	"github.com/example/rewards/internal/ctxutil"
	"github.com/example/rewards/internal/ports/primary"
	"github.com/example/rewards/internal/ports/secondary"
)

// ClaimServiceImpl implements the ClaimService interface.
type ClaimServiceImpl struct {
	store    secondary.Store
	recorder EventRecorder
	clock    secondary.Clock
	logger   *slog.Logger
}

// NewClaimService creates a new ClaimService with injected dependencies.
func NewClaimService(
	store secondary.Store,
	recorder EventRecorder,
	clock secondary.Clock,
	logger *slog.Logger,
) *ClaimServiceImpl {
	return &ClaimServiceImpl{
		store:    store,
		recorder: recorder,
		clock:    resolveClock(clock),
		logger:   resolveLogger(logger),
	}
}

// Claim verifies the caller's entitlement and pays it out of the epoch escrow.
// The claim record, transfer, counters and notification commit together or not at all.
func (s *ClaimServiceImpl) Claim(ctx context.Context, req primary.ClaimRequest) (_ *primary.ClaimResponse, err error) {
	ctx, span := startSpan(ctx, "claim.claim", req.Deployment,
		attribute.Int64("rewards.epoch_nr", int64(req.EpochNr)),
		attribute.Int64("rewards.leaf_index", int64(req.LeafIndex)),
	)
	defer func() { finishSpan(span, err) }()

	receiver := ctxutil.CallerFromContext(ctx)
	if err := requireCaller(receiver); err != nil {
		return nil, err
	}

	var (
		record      *secondary.ClaimRecord
		destination identity.Identity
	)
	err = s.store.WithinTx(ctx, func(tx secondary.Tx) error {
		gov, err := loadGovernance(ctx, tx, req.Deployment)
		if err != nil {
			return err
		}
		epochKey := keys.EpochKey(req.Deployment, req.EpochNr)
		epoch, err := loadEpoch(ctx, tx, epochKey)
		if err != nil {
			return err
		}
		claimKey := keys.ClaimKey(req.Deployment, req.EpochNr, req.LeafIndex)
		claimed, err := tx.Claims().Exists(ctx, claimKey)
		if err != nil {
			return fmt.Errorf("failed to check claim status: %w", err)
		}

		// The default destination is created after the guard passes; an
		// explicit destination must already exist to have an owner.
		useDefault := req.Destination.IsZero()
		destination = req.Destination
		destinationOwner := identity.Zero
		if useDefault {
			destination = keys.AssetAccount(receiver, req.AssetID)
			destinationOwner = receiver
		} else {
			account, err := tx.Assets().GetAccount(ctx, destination)
			if err != nil && !errors.Is(err, coreerrors.ErrNotFound) {
				return fmt.Errorf("failed to resolve destination: %w", err)
			}
			if account != nil {
				destinationOwner = account.Owner
			}
		}

		guardCtx := coreclaim.ClaimContext{
			IsPaused:         gov.IsPaused,
			EpochNr:          req.EpochNr,
			EpochExists:      epoch != nil,
			RequestedAsset:   req.AssetID,
			LeafIndex:        req.LeafIndex,
			Receiver:         receiver,
			Amount:           req.Amount,
			Proof:            req.Proof,
			AlreadyClaimed:   claimed,
			Destination:      destination,
			DestinationOwner: destinationOwner,
		}
		if epoch != nil {
			guardCtx.IsApproved = epoch.IsApproved
			guardCtx.EpochAsset = epoch.AssetID
			guardCtx.Root = epoch.MerkleRoot
			guardCtx.TotalAmountClaimed = epoch.TotalAmountClaimed
			guardCtx.NumNodesClaimed = epoch.NumNodesClaimed
			guardCtx.MaxTotalClaim = epoch.MaxTotalClaim
			guardCtx.MaxNumNodes = epoch.MaxNumNodes
			guardCtx.Source = epoch.Escrow
		}
		if result := coreclaim.CanClaim(guardCtx); !result.Allowed {
			return result.Error()
		}

		record = &secondary.ClaimRecord{
			Key:        claimKey,
			Deployment: req.Deployment,
			EpochNr:    req.EpochNr,
			LeafIndex:  req.LeafIndex,
			IsClaimed:  true,
			Receiver:   receiver,
			ClaimedAt:  s.clock.Now(),
			Amount:     req.Amount,
		}
		if err := tx.Claims().Create(ctx, record); err != nil {
			return fmt.Errorf("failed to record claim: %w", err)
		}

		if useDefault {
			if _, err := tx.Assets().GetOrCreateAccount(ctx, receiver, req.AssetID); err != nil {
				return fmt.Errorf("failed to resolve receiver account: %w", err)
			}
		}
		if err := tx.Assets().Transfer(ctx, epoch.Escrow, destination, req.Amount, epochKey); err != nil {
			return fmt.Errorf("failed to pay out claim: %w", err)
		}

		epoch.TotalAmountClaimed += req.Amount
		epoch.NumNodesClaimed++
		if err := tx.Epochs().Update(ctx, epoch); err != nil {
			return fmt.Errorf("failed to update epoch: %w", err)
		}

		return s.recorder.Record(ctx, tx, req.Deployment, events.Claimed{
			Index:    req.LeafIndex,
			Receiver: receiver,
			Amount:   req.Amount,
			EpochNr:  req.EpochNr,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("entitlement claimed",
		"event", "claimed",
		"deployment", req.Deployment.String(),
		"epoch_nr", req.EpochNr,
		"index", req.LeafIndex,
		"receiver", receiver.String(),
		"amount", req.Amount,
	)
	return &primary.ClaimResponse{Claim: claimToPort(record), Destination: destination}, nil
}

// GetClaimStatus reports whether an entitlement has been paid out.
func (s *ClaimServiceImpl) GetClaimStatus(ctx context.Context, req primary.ClaimStatusRequest) (*primary.ClaimStatus, error) {
	key := keys.ClaimKey(req.Deployment, req.EpochNr, req.LeafIndex)
	status := &primary.ClaimStatus{Key: key}
	err := s.store.View(ctx, func(tx secondary.Tx) error {
		record, err := tx.Claims().Get(ctx, key)
		if errors.Is(err, coreerrors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		status.Claimed = true
		status.Claim = claimToPort(record)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get claim status: %w", err)
	}
	return status, nil
}

// ListClaims lists the payouts of one epoch.
func (s *ClaimServiceImpl) ListClaims(ctx context.Context, deployment identity.Identity, epochNr uint64) ([]*primary.Claim, error) {
	var records []*secondary.ClaimRecord
	err := s.store.View(ctx, func(tx secondary.Tx) error {
		var err error
		records, err = tx.Claims().ListByEpoch(ctx, deployment, epochNr)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}

	claims := make([]*primary.Claim, len(records))
	for i, r := range records {
		claims[i] = claimToPort(r)
	}
	return claims, nil
}

var _ primary.ClaimService = (*ClaimServiceImpl)(nil)
