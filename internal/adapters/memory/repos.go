package memory

import (
	"context"
	"fmt"
	"sort"

	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/ports/secondary"
)

type governanceRepo struct{ s *state }

func (r governanceRepo) Get(ctx context.Context, deployment identity.Identity) (*secondary.GovernanceRecord, error) {
	record, ok := r.s.governance[deployment]
	if !ok {
		return nil, fmt.Errorf("%w: governance %s", coreerrors.ErrNotFound, deployment)
	}
	return &record, nil
}

func (r governanceRepo) Exists(ctx context.Context, deployment identity.Identity) (bool, error) {
	_, ok := r.s.governance[deployment]
	return ok, nil
}

func (r governanceRepo) Create(ctx context.Context, record *secondary.GovernanceRecord) error {
	if _, ok := r.s.governance[record.Deployment]; ok {
		return fmt.Errorf("%w: deployment %s", coreerrors.ErrAlreadyInitialized, record.Deployment)
	}
	r.s.governance[record.Deployment] = *record
	return nil
}

func (r governanceRepo) Update(ctx context.Context, record *secondary.GovernanceRecord) error {
	if _, ok := r.s.governance[record.Deployment]; !ok {
		return fmt.Errorf("%w: governance %s", coreerrors.ErrNotFound, record.Deployment)
	}
	r.s.governance[record.Deployment] = *record
	return nil
}

type epochRepo struct{ s *state }

func (r epochRepo) Get(ctx context.Context, key identity.Identity) (*secondary.EpochRecord, error) {
	record, ok := r.s.epochs[key]
	if !ok {
		return nil, fmt.Errorf("%w: epoch %s", coreerrors.ErrNotFound, key)
	}
	return &record, nil
}

func (r epochRepo) Exists(ctx context.Context, key identity.Identity) (bool, error) {
	_, ok := r.s.epochs[key]
	return ok, nil
}

func (r epochRepo) Create(ctx context.Context, record *secondary.EpochRecord) error {
	if _, ok := r.s.epochs[record.Key]; ok {
		return fmt.Errorf("%w: epoch %d already exists", coreerrors.ErrInvalidEpochNr, record.EpochNr)
	}
	r.s.epochs[record.Key] = *record
	return nil
}

func (r epochRepo) Update(ctx context.Context, record *secondary.EpochRecord) error {
	if _, ok := r.s.epochs[record.Key]; !ok {
		return fmt.Errorf("%w: epoch %s", coreerrors.ErrNotFound, record.Key)
	}
	r.s.epochs[record.Key] = *record
	return nil
}

func (r epochRepo) List(ctx context.Context, filters secondary.EpochFilters) ([]*secondary.EpochRecord, error) {
	var out []*secondary.EpochRecord
	for _, record := range r.s.epochs {
		if record.Deployment != filters.Deployment {
			continue
		}
		if filters.ApprovedOnly && !record.IsApproved {
			continue
		}
		out = append(out, &record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EpochNr < out[j].EpochNr })
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

type claimRepo struct{ s *state }

func (r claimRepo) Get(ctx context.Context, key identity.Identity) (*secondary.ClaimRecord, error) {
	record, ok := r.s.claims[key]
	if !ok {
		return nil, fmt.Errorf("%w: claim %s", coreerrors.ErrNotFound, key)
	}
	return &record, nil
}

func (r claimRepo) Exists(ctx context.Context, key identity.Identity) (bool, error) {
	_, ok := r.s.claims[key]
	return ok, nil
}

func (r claimRepo) Create(ctx context.Context, record *secondary.ClaimRecord) error {
	if _, ok := r.s.claims[record.Key]; ok {
		return fmt.Errorf("%w: leaf %d of epoch %d", coreerrors.ErrDropAlreadyClaimed, record.LeafIndex, record.EpochNr)
	}
	r.s.claims[record.Key] = *record
	return nil
}

func (r claimRepo) ListByEpoch(ctx context.Context, deployment identity.Identity, epochNr uint64) ([]*secondary.ClaimRecord, error) {
	var out []*secondary.ClaimRecord
	for _, record := range r.s.claims {
		if record.Deployment == deployment && record.EpochNr == epochNr {
			out = append(out, &record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeafIndex < out[j].LeafIndex })
	return out, nil
}
