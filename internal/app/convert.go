package app

import (
	"github.com/example/rewards/internal/ports/primary"
	"github.com/example/rewards/internal/ports/secondary"
)

func governanceToPort(r *secondary.GovernanceRecord) *primary.Governance {
	return &primary.Governance{
		Deployment:           r.Deployment,
		Manager:              r.Manager,
		ProposedManager:      r.ProposedManager,
		Agent:                r.Agent,
		CurrentEpochNr:       r.CurrentEpochNr,
		CurrentApprovedEpoch: r.CurrentApprovedEpoch,
		EpochLength:          r.EpochLength,
		IsPaused:             r.IsPaused,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

func epochToPort(r *secondary.EpochRecord) *primary.Epoch {
	return &primary.Epoch{
		Key:                r.Key,
		Deployment:         r.Deployment,
		EpochNr:            r.EpochNr,
		MerkleRoot:         r.MerkleRoot,
		IsApproved:         r.IsApproved,
		AssetID:            r.AssetID,
		Escrow:             r.Escrow,
		TotalAmountClaimed: r.TotalAmountClaimed,
		NumNodesClaimed:    r.NumNodesClaimed,
		MaxTotalClaim:      r.MaxTotalClaim,
		MaxNumNodes:        r.MaxNumNodes,
		FundedAmount:       r.FundedAmount,
		CreatedAt:          r.CreatedAt,
		ApprovedAt:         r.ApprovedAt,
	}
}

func claimToPort(r *secondary.ClaimRecord) *primary.Claim {
	return &primary.Claim{
		Key:        r.Key,
		Deployment: r.Deployment,
		EpochNr:    r.EpochNr,
		LeafIndex:  r.LeafIndex,
		IsClaimed:  r.IsClaimed,
		Receiver:   r.Receiver,
		Amount:     r.Amount,
		ClaimedAt:  r.ClaimedAt,
	}
}

func accountToPort(r *secondary.AssetAccountRecord, decimals uint8) *primary.AssetAccount {
	return &primary.AssetAccount{
		ID:       r.ID,
		Owner:    r.Owner,
		AssetID:  r.AssetID,
		Decimals: decimals,
		Balance:  r.Balance,
	}
}

func eventToPort(m *secondary.OutboxMessage) *primary.Event {
	return &primary.Event{
		ID:          m.ID,
		Deployment:  m.Deployment,
		EventType:   m.EventType,
		Payload:     m.Payload,
		CreatedAt:   m.CreatedAt,
		PublishedAt: m.PublishedAt,
	}
}
