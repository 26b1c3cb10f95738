package repository

import (
	"database/sql"

	"grocery-graph/internal/domain"
)

// OwnershipRepo answers the traversal reads that back authorization
// decisions. Pure reads with no caching beyond the store's own; open it on
// the read pool so authorization checks never queue behind writers.
type OwnershipRepo struct {
	graphOps
}

// NewOwnershipRepo creates an OwnershipRepo on the given pool.
func NewOwnershipRepo(db *sql.DB) *OwnershipRepo {
	return &OwnershipRepo{graphOps: graphOps{q: db}}
}

var _ domain.OwnershipIndex = (*OwnershipRepo)(nil)
