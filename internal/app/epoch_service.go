package app

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	coreepoch "github.com/example/rewards/internal/core/epoch"
	"github.com/example/rewards/internal/core/events"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/keys"
	"github.com/example/rewards/internal/ctxutil"
	"github.com/example/rewards/internal/ports/primary"
	"github.com/example/rewards/internal/ports/secondary"
)

// EpochServiceImpl implements the EpochService interface.
type EpochServiceImpl struct {
	store    secondary.Store
	recorder EventRecorder
	clock    secondary.Clock
	logger   *slog.Logger
}

// NewEpochService creates a new EpochService with injected dependencies.
func NewEpochService(
	store secondary.Store,
	recorder EventRecorder,
	clock secondary.Clock,
	logger *slog.Logger,
) *EpochServiceImpl {
	return &EpochServiceImpl{
		store:    store,
		recorder: recorder,
		clock:    resolveClock(clock),
		logger:   resolveLogger(logger),
	}
}

// AddEpoch creates the next draft epoch.
func (s *EpochServiceImpl) AddEpoch(ctx context.Context, req primary.AddEpochRequest) (_ *primary.Epoch, err error) {
	ctx, span := startSpan(ctx, "epoch.add", req.Deployment, attribute.String("rewards.asset", req.AssetID))
	defer func() { finishSpan(span, err) }()

	caller := ctxutil.CallerFromContext(ctx)
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	var record *secondary.EpochRecord
	err = s.store.WithinTx(ctx, func(tx secondary.Tx) error {
		gov, err := loadGovernance(ctx, tx, req.Deployment)
		if err != nil {
			return err
		}

		guardCtx := coreepoch.AddEpochContext{
			Caller:               caller,
			Agent:                gov.Agent,
			IsPaused:             gov.IsPaused,
			CurrentEpochNr:       gov.CurrentEpochNr,
			CurrentApprovedEpoch: gov.CurrentApprovedEpoch,
			Root:                 req.Root,
			AssetID:              req.AssetID,
		}
		if result := coreepoch.CanAddEpoch(guardCtx); !result.Allowed {
			return result.Error()
		}

		if _, err := tx.Assets().GetAsset(ctx, req.AssetID); err != nil {
			return err
		}

		now := s.clock.Now()
		epochNr := gov.CurrentEpochNr + 1
		key := keys.EpochKey(req.Deployment, epochNr)
		record = &secondary.EpochRecord{
			Key:         key,
			Deployment:  req.Deployment,
			EpochNr:     epochNr,
			MerkleRoot:  req.Root,
			AssetID:     req.AssetID,
			Escrow:      keys.EscrowAccount(key, req.AssetID),
			MaxNumNodes: req.MaxNumNodes,
			CreatedAt:   now,
		}
		if err := tx.Epochs().Create(ctx, record); err != nil {
			return fmt.Errorf("failed to create epoch: %w", err)
		}

		gov.CurrentEpochNr = epochNr
		gov.UpdatedAt = now
		if err := tx.Governance().Update(ctx, gov); err != nil {
			return fmt.Errorf("failed to update governance: %w", err)
		}

		return s.recorder.Record(ctx, tx, req.Deployment, events.EpochCreated{
			EpochNr:   epochNr,
			Hash:      req.Root,
			Timestamp: now.Unix(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("epoch created",
		"event", "epoch_created",
		"deployment", req.Deployment.String(),
		"epoch_nr", record.EpochNr,
		"root", record.MerkleRoot.String(),
		"asset", record.AssetID,
	)
	return epochToPort(record), nil
}

// CorrectEpoch overwrites the root, and optionally the asset, of a draft epoch.
func (s *EpochServiceImpl) CorrectEpoch(ctx context.Context, req primary.CorrectEpochRequest) (_ *primary.Epoch, err error) {
	ctx, span := startSpan(ctx, "epoch.correct", req.Deployment, attribute.Int64("rewards.epoch_nr", int64(req.EpochNr)))
	defer func() { finishSpan(span, err) }()

	caller := ctxutil.CallerFromContext(ctx)
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	var record *secondary.EpochRecord
	err = s.store.WithinTx(ctx, func(tx secondary.Tx) error {
		gov, err := loadGovernance(ctx, tx, req.Deployment)
		if err != nil {
			return err
		}
		record, err = loadEpoch(ctx, tx, keys.EpochKey(req.Deployment, req.EpochNr))
		if err != nil {
			return err
		}

		guardCtx := coreepoch.CorrectEpochContext{
			Caller:      caller,
			Agent:       gov.Agent,
			IsPaused:    gov.IsPaused,
			EpochNr:     req.EpochNr,
			EpochExists: record != nil,
			Root:        req.Root,
		}
		if record != nil {
			guardCtx.IsApproved = record.IsApproved
		}
		if result := coreepoch.CanCorrectEpoch(guardCtx); !result.Allowed {
			return result.Error()
		}

		if req.AssetID != "" && req.AssetID != record.AssetID {
			if _, err := tx.Assets().GetAsset(ctx, req.AssetID); err != nil {
				return err
			}
			record.AssetID = req.AssetID
			record.Escrow = keys.EscrowAccount(record.Key, req.AssetID)
		}
		record.MerkleRoot = req.Root
		if err := tx.Epochs().Update(ctx, record); err != nil {
			return fmt.Errorf("failed to update epoch: %w", err)
		}

		return s.recorder.Record(ctx, tx, req.Deployment, events.EpochCorrected{
			Root:    req.Root,
			EpochNr: req.EpochNr,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("epoch corrected",
		"event", "epoch_corrected",
		"deployment", req.Deployment.String(),
		"epoch_nr", record.EpochNr,
		"root", record.MerkleRoot.String(),
		"asset", record.AssetID,
	)
	return epochToPort(record), nil
}

// ApproveEpoch moves the scaled funding from the manager's account into the
// epoch escrow and approves the epoch. This is the irreversible commit point.
func (s *EpochServiceImpl) ApproveEpoch(ctx context.Context, req primary.ApproveEpochRequest) (_ *primary.Epoch, err error) {
	ctx, span := startSpan(ctx, "epoch.approve", req.Deployment, attribute.Int64("rewards.epoch_nr", int64(req.EpochNr)))
	defer func() { finishSpan(span, err) }()

	caller := ctxutil.CallerFromContext(ctx)
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	var record *secondary.EpochRecord
	err = s.store.WithinTx(ctx, func(tx secondary.Tx) error {
		gov, err := loadGovernance(ctx, tx, req.Deployment)
		if err != nil {
			return err
		}
		record, err = loadEpoch(ctx, tx, keys.EpochKey(req.Deployment, req.EpochNr))
		if err != nil {
			return err
		}

		guardCtx := coreepoch.ApproveEpochContext{
			Caller:         caller,
			Manager:        gov.Manager,
			IsPaused:       gov.IsPaused,
			EpochNr:        req.EpochNr,
			EpochExists:    record != nil,
			CurrentEpochNr: gov.CurrentEpochNr,
			FundingAmount:  req.FundingAmount,
		}
		if record != nil {
			guardCtx.IsApproved = record.IsApproved
		}
		if result := coreepoch.CanApproveEpoch(guardCtx); !result.Allowed {
			return result.Error()
		}

		asset, err := tx.Assets().GetAsset(ctx, record.AssetID)
		if err != nil {
			return err
		}
		scaled, err := coreepoch.ScaleFunding(req.FundingAmount, asset.Decimals)
		if err != nil {
			return err
		}

		source, err := tx.Assets().GetOrCreateAccount(ctx, caller, record.AssetID)
		if err != nil {
			return fmt.Errorf("failed to resolve manager account: %w", err)
		}
		escrow, err := tx.Assets().OpenAccount(ctx, record.Escrow, record.Key, record.AssetID)
		if err != nil {
			return fmt.Errorf("failed to open epoch escrow: %w", err)
		}
		if err := tx.Assets().Transfer(ctx, source.ID, escrow.ID, scaled, caller); err != nil {
			return fmt.Errorf("failed to fund epoch escrow: %w", err)
		}

		now := s.clock.Now()
		record.IsApproved = true
		record.FundedAmount = scaled
		record.MaxTotalClaim = scaled
		record.ApprovedAt = now
		if err := tx.Epochs().Update(ctx, record); err != nil {
			return fmt.Errorf("failed to update epoch: %w", err)
		}

		gov.CurrentApprovedEpoch = req.EpochNr
		gov.UpdatedAt = now
		if err := tx.Governance().Update(ctx, gov); err != nil {
			return fmt.Errorf("failed to update governance: %w", err)
		}

		return s.recorder.Record(ctx, tx, req.Deployment, events.EpochApproved{EpochNr: req.EpochNr})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("epoch approved",
		"event", "epoch_approved",
		"deployment", req.Deployment.String(),
		"epoch_nr", record.EpochNr,
		"funded", record.FundedAmount,
	)
	return epochToPort(record), nil
}

// GetEpoch retrieves an epoch by number.
func (s *EpochServiceImpl) GetEpoch(ctx context.Context, deployment identity.Identity, epochNr uint64) (*primary.Epoch, error) {
	var record *secondary.EpochRecord
	err := s.store.View(ctx, func(tx secondary.Tx) error {
		var err error
		record, err = tx.Epochs().Get(ctx, keys.EpochKey(deployment, epochNr))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("epoch %d: %w", epochNr, err)
	}
	return epochToPort(record), nil
}

// ListEpochs lists epochs ordered by number.
func (s *EpochServiceImpl) ListEpochs(ctx context.Context, filters primary.EpochFilters) ([]*primary.Epoch, error) {
	var records []*secondary.EpochRecord
	err := s.store.View(ctx, func(tx secondary.Tx) error {
		var err error
		records, err = tx.Epochs().List(ctx, secondary.EpochFilters{
			Deployment:   filters.Deployment,
			ApprovedOnly: filters.ApprovedOnly,
			Limit:        filters.Limit,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list epochs: %w", err)
	}

	epochs := make([]*primary.Epoch, len(records))
	for i, r := range records {
		epochs[i] = epochToPort(r)
	}
	return epochs, nil
}

var _ primary.EpochService = (*EpochServiceImpl)(nil)
