package app

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/example/rewards/internal/core/events"
	coregovernance "github.com/example/rewards/internal/core/governance"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/ctxutil"
	"github.com/example/rewards/internal/ports/primary"
	"github.com/example/rewards/internal/ports/secondary"
)

// GovernanceServiceImpl implements the GovernanceService interface.
type GovernanceServiceImpl struct {
	store    secondary.Store
	recorder EventRecorder
	clock    secondary.Clock
	logger   *slog.Logger
}

// NewGovernanceService creates a new GovernanceService with injected dependencies.
func NewGovernanceService(
	store secondary.Store,
	recorder EventRecorder,
	clock secondary.Clock,
	logger *slog.Logger,
) *GovernanceServiceImpl {
	return &GovernanceServiceImpl{
		store:    store,
		recorder: recorder,
		clock:    resolveClock(clock),
		logger:   resolveLogger(logger),
	}
}

// Initialize creates the governance record with the caller as manager.
func (s *GovernanceServiceImpl) Initialize(ctx context.Context, req primary.InitializeRequest) (_ *primary.Governance, err error) {
	ctx, span := startSpan(ctx, "governance.initialize", req.Deployment)
	defer func() { finishSpan(span, err) }()

	caller := ctxutil.CallerFromContext(ctx)
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := requireDeployment(req.Deployment); err != nil {
		return nil, err
	}

	var record *secondary.GovernanceRecord
	err = s.store.WithinTx(ctx, func(tx secondary.Tx) error {
		exists, err := tx.Governance().Exists(ctx, req.Deployment)
		if err != nil {
			return fmt.Errorf("failed to check deployment: %w", err)
		}

		guardCtx := coregovernance.InitializeContext{
			Deployment: req.Deployment,
			Exists:     exists,
			Agent:      req.Agent,
		}
		if result := coregovernance.CanInitialize(guardCtx); !result.Allowed {
			return result.Error()
		}

		now := s.clock.Now()
		record = &secondary.GovernanceRecord{
			Deployment:  req.Deployment,
			Manager:     caller,
			Agent:       req.Agent,
			EpochLength: req.EpochLength,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Governance().Create(ctx, record); err != nil {
			return fmt.Errorf("failed to create governance record: %w", err)
		}

		return s.recorder.Record(ctx, tx, req.Deployment, events.Initialized{
			Manager:        record.Manager,
			Agent:          record.Agent,
			CurrentEpochNr: record.CurrentEpochNr,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deployment initialized",
		"event", "initialized",
		"deployment", req.Deployment.String(),
		"manager", caller.String(),
		"agent", req.Agent.String(),
	)
	return governanceToPort(record), nil
}

// ProposeManager records a pending manager transfer.
func (s *GovernanceServiceImpl) ProposeManager(ctx context.Context, req primary.ProposeManagerRequest) error {
	return s.mutate(ctx, req.Deployment, "governance.propose_manager",
		func(g coregovernance.ManagerActionContext, _ *secondary.GovernanceRecord) coregovernance.GuardResult {
			return coregovernance.CanProposeManager(g, req.Candidate)
		},
		func(record *secondary.GovernanceRecord) events.Event {
			record.ProposedManager = req.Candidate
			return events.NewProposedManager{ProposedManager: req.Candidate}
		},
	)
}

// AcceptManager completes a pending manager transfer. Only the proposed
// manager may call it.
func (s *GovernanceServiceImpl) AcceptManager(ctx context.Context, deployment identity.Identity) error {
	return s.mutate(ctx, deployment, "governance.accept_manager",
		func(g coregovernance.ManagerActionContext, record *secondary.GovernanceRecord) coregovernance.GuardResult {
			return coregovernance.CanAcceptManager(coregovernance.AcceptManagerContext{
				Caller:          g.Caller,
				ProposedManager: record.ProposedManager,
				IsPaused:        g.IsPaused,
			})
		},
		func(record *secondary.GovernanceRecord) events.Event {
			record.Manager = record.ProposedManager
			record.ProposedManager = identity.Zero
			return events.ManagerUpdated{NewManager: record.Manager}
		},
	)
}

// ChangeAgent replaces the operational agent.
func (s *GovernanceServiceImpl) ChangeAgent(ctx context.Context, req primary.ChangeAgentRequest) error {
	return s.mutate(ctx, req.Deployment, "governance.change_agent",
		func(g coregovernance.ManagerActionContext, _ *secondary.GovernanceRecord) coregovernance.GuardResult {
			return coregovernance.CanChangeAgent(g, req.NewAgent)
		},
		func(record *secondary.GovernanceRecord) events.Event {
			record.Agent = req.NewAgent
			return events.AgentChanged{NewAgent: req.NewAgent}
		},
	)
}

// SetEpochLength updates the advisory epoch cadence.
func (s *GovernanceServiceImpl) SetEpochLength(ctx context.Context, req primary.SetEpochLengthRequest) error {
	return s.mutate(ctx, req.Deployment, "governance.set_epoch_length",
		func(g coregovernance.ManagerActionContext, _ *secondary.GovernanceRecord) coregovernance.GuardResult {
			return coregovernance.CanSetEpochLength(g)
		},
		func(record *secondary.GovernanceRecord) events.Event {
			record.EpochLength = req.EpochLength
			return events.EpochLengthChanged{EpochLength: req.EpochLength}
		},
	)
}

// Pause stops every mutating operation except Unpause.
func (s *GovernanceServiceImpl) Pause(ctx context.Context, deployment identity.Identity) error {
	return s.mutate(ctx, deployment, "governance.pause",
		func(g coregovernance.ManagerActionContext, _ *secondary.GovernanceRecord) coregovernance.GuardResult {
			return coregovernance.CanPause(g)
		},
		func(record *secondary.GovernanceRecord) events.Event {
			record.IsPaused = true
			return events.Paused{IsPaused: true}
		},
	)
}

// Unpause resumes normal operation.
func (s *GovernanceServiceImpl) Unpause(ctx context.Context, deployment identity.Identity) error {
	return s.mutate(ctx, deployment, "governance.unpause",
		func(g coregovernance.ManagerActionContext, _ *secondary.GovernanceRecord) coregovernance.GuardResult {
			return coregovernance.CanUnpause(g)
		},
		func(record *secondary.GovernanceRecord) events.Event {
			record.IsPaused = false
			return events.Paused{IsPaused: false}
		},
	)
}

// GetGovernance retrieves the governance record.
func (s *GovernanceServiceImpl) GetGovernance(ctx context.Context, deployment identity.Identity) (*primary.Governance, error) {
	var record *secondary.GovernanceRecord
	err := s.store.View(ctx, func(tx secondary.Tx) error {
		var err error
		record, err = loadGovernance(ctx, tx, deployment)
		return err
	})
	if err != nil {
		return nil, err
	}
	return governanceToPort(record), nil
}

// mutate runs the shared load → guard → apply → persist → record sequence
// of every governance operation after Initialize.
func (s *GovernanceServiceImpl) mutate(
	ctx context.Context,
	deployment identity.Identity,
	operation string,
	guard func(coregovernance.ManagerActionContext, *secondary.GovernanceRecord) coregovernance.GuardResult,
	apply func(*secondary.GovernanceRecord) events.Event,
) (err error) {
	ctx, span := startSpan(ctx, operation, deployment)
	defer func() { finishSpan(span, err) }()

	caller := ctxutil.CallerFromContext(ctx)
	if err := requireCaller(caller); err != nil {
		return err
	}

	var ev events.Event
	err = s.store.WithinTx(ctx, func(tx secondary.Tx) error {
		record, err := loadGovernance(ctx, tx, deployment)
		if err != nil {
			return err
		}

		guardCtx := coregovernance.ManagerActionContext{
			Caller:   caller,
			Manager:  record.Manager,
			IsPaused: record.IsPaused,
		}
		if result := guard(guardCtx, record); !result.Allowed {
			return result.Error()
		}

		ev = apply(record)
		record.UpdatedAt = s.clock.Now()
		if err := tx.Governance().Update(ctx, record); err != nil {
			return fmt.Errorf("failed to update governance: %w", err)
		}
		return s.recorder.Record(ctx, tx, deployment, ev)
	})
	if err != nil {
		return err
	}

	span.SetAttributes(attribute.String("rewards.event", ev.EventType()))
	s.logger.Info("governance updated",
		"event", ev.EventType(),
		"deployment", deployment.String(),
		"caller", caller.String(),
	)
	return nil
}

var _ primary.GovernanceService = (*GovernanceServiceImpl)(nil)
