package app

import (
	"context"
	"fmt"
	"log/slog"

	"grocery-graph/internal/db/repository"
	"grocery-graph/internal/domain"
)

// seedBootstrapAdmin creates the initial admin account when the users table
// is empty, so a fresh deployment has a principal that can mint the rest.
// Idempotent: any existing account disables it.
func seedBootstrapAdmin(ctx context.Context, users *repository.UserRepo, graph *repository.GraphRepo, logger *slog.Logger) error {
	existing, err := users.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: list accounts: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	admin, err := users.Create(ctx, &domain.User{
		Email:  "admin@localhost",
		Name:   "admin",
		Role:   domain.RoleAdmin,
		Active: true,
	})
	if err != nil {
		return fmt.Errorf("seed: create bootstrap admin: %w", err)
	}

	// Counterpart sync is best-effort here too; the admin role never
	// depends on graph evidence.
	if _, err := graph.MergeUserNode(ctx, admin.ExternalID(), map[string]any{
		"name":  admin.Name,
		"email": admin.Email,
		"role":  admin.Role,
	}); err != nil {
		logger.Warn("bootstrap admin counterpart sync failed", "error", err)
	}

	logger.Info("bootstrap admin created", "email", admin.Email, "id", admin.ID)
	return nil
}
