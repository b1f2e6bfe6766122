// Package events defines the notifications emitted by distributor operations.
// Events are pure data: services append them to the outbox inside the same
// transaction as the state change they describe.
package events

import (
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/merkle"
)

// Event is the base interface for all notifications.
type Event interface {
	// EventType returns a string identifier for the event type.
	EventType() string
}

// Initialized is emitted once per deployment.
type Initialized struct {
	Manager        identity.Identity `json:"manager"`
	Agent          identity.Identity `json:"agent"`
	CurrentEpochNr uint64            `json:"current_epoch_nr"`
}

func (Initialized) EventType() string { return "initialized" }

// NewProposedManager is emitted when a manager transfer is proposed.
type NewProposedManager struct {
	ProposedManager identity.Identity `json:"proposed_manager"`
}

func (NewProposedManager) EventType() string { return "new_proposed_manager" }

// ManagerUpdated is emitted when the proposed manager accepts.
type ManagerUpdated struct {
	NewManager identity.Identity `json:"new_manager"`
}

func (ManagerUpdated) EventType() string { return "manager_updated" }

// AgentChanged is emitted when the manager replaces the agent.
type AgentChanged struct {
	NewAgent identity.Identity `json:"new_agent"`
}

func (AgentChanged) EventType() string { return "agent_changed" }

// EpochLengthChanged is emitted when the advisory cadence changes.
type EpochLengthChanged struct {
	EpochLength uint64 `json:"epoch_length"`
}

func (EpochLengthChanged) EventType() string { return "epoch_length_changed" }

// Paused is emitted by both pause and unpause.
type Paused struct {
	IsPaused bool `json:"is_paused"`
}

func (Paused) EventType() string { return "paused" }

// EpochCreated is emitted when the agent adds a draft epoch.
type EpochCreated struct {
	EpochNr   uint64      `json:"epoch_nr"`
	Hash      merkle.Hash `json:"hash"`
	Timestamp int64       `json:"timestamp"`
}

func (EpochCreated) EventType() string { return "epoch_created" }

// EpochCorrected is emitted when a draft root is overwritten.
type EpochCorrected struct {
	Root    merkle.Hash `json:"root"`
	EpochNr uint64      `json:"epoch_nr"`
}

func (EpochCorrected) EventType() string { return "epoch_corrected" }

// EpochApproved is emitted at the irreversible commit point.
type EpochApproved struct {
	EpochNr uint64 `json:"epoch_nr"`
}

func (EpochApproved) EventType() string { return "epoch_approved" }

// Claimed is emitted for every successful payout.
type Claimed struct {
	Index    uint64            `json:"index"`
	Receiver identity.Identity `json:"receiver"`
	Amount   uint64            `json:"amount"`
	EpochNr  uint64            `json:"epoch_nr"`
}

func (Claimed) EventType() string { return "claimed" }
