package app

import (
	"context"
	"errors"
	"testing"

	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/ports/primary"
)

func TestGovernanceService_Initialize(t *testing.T) {
	s := newTestServices(t)

	gov, err := s.governance.Initialize(as(testManager), primary.InitializeRequest{
		Deployment: testDeployment,
		Agent:      testAgent,
	})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if gov.Manager != testManager || gov.Agent != testAgent {
		t.Errorf("unexpected roles: manager=%s agent=%s", gov.Manager, gov.Agent)
	}
	if gov.CurrentEpochNr != 0 || gov.IsPaused || !gov.ProposedManager.IsZero() {
		t.Errorf("unexpected initial state: %+v", gov)
	}

	_, err = s.governance.Initialize(as(testStranger), primary.InitializeRequest{
		Deployment: testDeployment,
		Agent:      testStranger,
	})
	if !errors.Is(err, coreerrors.ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}

	evs, _ := s.events.ListEvents(context.Background(), primary.EventFilters{Deployment: testDeployment})
	if len(evs) != 1 || evs[0].EventType != "initialized" {
		t.Errorf("expected one initialized event, got %d", len(evs))
	}
}

func TestGovernanceService_InitializeRequiresCaller(t *testing.T) {
	s := newTestServices(t)

	_, err := s.governance.Initialize(context.Background(), primary.InitializeRequest{
		Deployment: testDeployment,
		Agent:      testAgent,
	})
	if !errors.Is(err, coreerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGovernanceService_ManagerTransfer(t *testing.T) {
	s := newTestServices(t)
	s.initialize(t)
	candidate := identity.Identity{0xC0}

	err := s.governance.ProposeManager(as(testAgent), primary.ProposeManagerRequest{Deployment: testDeployment, Candidate: candidate})
	if !errors.Is(err, coreerrors.ErrUnauthorized) {
		t.Fatalf("expected agent proposal to be unauthorized, got %v", err)
	}

	if err := s.governance.ProposeManager(as(testManager), primary.ProposeManagerRequest{Deployment: testDeployment, Candidate: candidate}); err != nil {
		t.Fatalf("ProposeManager failed: %v", err)
	}

	gov, _ := s.governance.GetGovernance(context.Background(), testDeployment)
	if gov.Manager != testManager || gov.ProposedManager != candidate {
		t.Fatalf("proposal must not transfer authority yet: %+v", gov)
	}

	if err := s.governance.AcceptManager(as(testStranger), testDeployment); !errors.Is(err, coreerrors.ErrUnauthorized) {
		t.Fatalf("expected stranger accept to be unauthorized, got %v", err)
	}
	if err := s.governance.AcceptManager(as(candidate), testDeployment); err != nil {
		t.Fatalf("AcceptManager failed: %v", err)
	}

	gov, _ = s.governance.GetGovernance(context.Background(), testDeployment)
	if gov.Manager != candidate || !gov.ProposedManager.IsZero() {
		t.Errorf("expected candidate as manager with no pending proposal, got %+v", gov)
	}

	if err := s.governance.Pause(as(testManager), testDeployment); !errors.Is(err, coreerrors.ErrUnauthorized) {
		t.Errorf("previous manager must lose authority, got %v", err)
	}
}

func TestGovernanceService_AcceptWithoutProposal(t *testing.T) {
	s := newTestServices(t)
	s.initialize(t)

	err := s.governance.AcceptManager(as(identity.Identity{}), testDeployment)
	if !errors.Is(err, coreerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGovernanceService_ChangeAgent(t *testing.T) {
	s := newTestServices(t)
	s.initialize(t)
	newAgent := identity.Identity{0xA3}

	if err := s.governance.ChangeAgent(as(testAgent), primary.ChangeAgentRequest{Deployment: testDeployment, NewAgent: newAgent}); !errors.Is(err, coreerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := s.governance.ChangeAgent(as(testManager), primary.ChangeAgentRequest{Deployment: testDeployment, NewAgent: newAgent}); err != nil {
		t.Fatalf("ChangeAgent failed: %v", err)
	}

	gov, _ := s.governance.GetGovernance(context.Background(), testDeployment)
	if gov.Agent != newAgent {
		t.Errorf("expected agent %s, got %s", newAgent, gov.Agent)
	}
}

func TestGovernanceService_SetEpochLength(t *testing.T) {
	s := newTestServices(t)
	s.initialize(t)

	if err := s.governance.SetEpochLength(as(testManager), primary.SetEpochLengthRequest{Deployment: testDeployment, EpochLength: 3600}); err != nil {
		t.Fatalf("SetEpochLength failed: %v", err)
	}
	gov, _ := s.governance.GetGovernance(context.Background(), testDeployment)
	if gov.EpochLength != 3600 {
		t.Errorf("expected epoch length 3600, got %d", gov.EpochLength)
	}
}

func TestGovernanceService_PauseGating(t *testing.T) {
	s := newTestServices(t)
	s.initialize(t)
	tree := testTree(t)

	if err := s.governance.Unpause(as(testManager), testDeployment); !errors.Is(err, coreerrors.ErrShouldBePaused) {
		t.Fatalf("expected ErrShouldBePaused when unpausing active program, got %v", err)
	}
	candidate := identity.Identity{0xC1}
	if err := s.governance.ProposeManager(as(testManager), primary.ProposeManagerRequest{Deployment: testDeployment, Candidate: candidate}); err != nil {
		t.Fatalf("ProposeManager failed: %v", err)
	}
	if err := s.governance.Pause(as(testManager), testDeployment); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if err := s.governance.Pause(as(testManager), testDeployment); !errors.Is(err, coreerrors.ErrShouldNotBePaused) {
		t.Fatalf("expected ErrShouldNotBePaused when pausing twice, got %v", err)
	}

	ops := map[string]func() error{
		"propose_manager": func() error {
			return s.governance.ProposeManager(as(testManager), primary.ProposeManagerRequest{Deployment: testDeployment, Candidate: testStranger})
		},
		"accept_manager": func() error {
			return s.governance.AcceptManager(as(candidate), testDeployment)
		},
		"change_agent": func() error {
			return s.governance.ChangeAgent(as(testManager), primary.ChangeAgentRequest{Deployment: testDeployment, NewAgent: testStranger})
		},
		"set_epoch_length": func() error {
			return s.governance.SetEpochLength(as(testManager), primary.SetEpochLengthRequest{Deployment: testDeployment, EpochLength: 1})
		},
		"add_epoch": func() error {
			_, err := s.epochs.AddEpoch(as(testAgent), primary.AddEpochRequest{Deployment: testDeployment, Root: tree.Root(), AssetID: testAsset})
			return err
		},
		"correct_epoch": func() error {
			_, err := s.epochs.CorrectEpoch(as(testAgent), primary.CorrectEpochRequest{Deployment: testDeployment, EpochNr: 1, Root: tree.Root()})
			return err
		},
		"approve_epoch": func() error {
			_, err := s.epochs.ApproveEpoch(as(testManager), primary.ApproveEpochRequest{Deployment: testDeployment, EpochNr: 1, FundingAmount: 10})
			return err
		},
		"claim": func() error {
			_, err := s.claims.Claim(as(testReceiver), claimRequest(t, tree, 1, 3))
			return err
		},
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(); !errors.Is(err, coreerrors.ErrShouldNotBePaused) {
				t.Errorf("expected ErrShouldNotBePaused, got %v", err)
			}
		})
	}

	if err := s.governance.Unpause(as(testManager), testDeployment); err != nil {
		t.Fatalf("Unpause failed: %v", err)
	}
	s.addEpoch(t, tree.Root())

	// The proposal made before the pause is still pending.
	if err := s.governance.AcceptManager(as(candidate), testDeployment); err != nil {
		t.Fatalf("AcceptManager after unpause failed: %v", err)
	}
}

func TestGovernanceService_NotInitialized(t *testing.T) {
	s := newTestServices(t)

	err := s.governance.Pause(as(testManager), testDeployment)
	if !errors.Is(err, coreerrors.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := s.governance.GetGovernance(context.Background(), testDeployment); !errors.Is(err, coreerrors.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}
