package redis

import (
	"context"

	"github.com/campus-hub/campus-ops-hub/internal/domain/shared"
	"github.com/campus-hub/campus-ops-hub/internal/domain/transit"
)

// busRepository implements transit.Repository on the campus store.
type busRepository struct {
	campus *Campus
}

func (r *busRepository) GetAll(ctx context.Context) ([]*transit.Bus, error) {
	return r.campus.loadBuses(ctx)
}

func (r *busRepository) GetByID(ctx context.Context, id transit.ID) (*transit.Bus, error) {
	buses, err := r.campus.loadBuses(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range buses {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, shared.ErrBusNotFound
}
