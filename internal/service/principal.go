package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"grocery-graph/internal/domain"
)

// PrincipalService manages relational accounts and keeps their graph
// counterparts eventually consistent. Counterpart sync failures are
// logged, not fatal: the authorization layer treats a missing counterpart
// as "not responsible" until the next sync catches up.
type PrincipalService struct {
	users  domain.UserRepository
	graph  domain.GraphStore
	auth   *AuthorizationService
	logger *slog.Logger
}

// NewPrincipalService creates a PrincipalService.
func NewPrincipalService(users domain.UserRepository, graph domain.GraphStore, auth *AuthorizationService, logger *slog.Logger) *PrincipalService {
	return &PrincipalService{users: users, graph: graph, auth: auth, logger: logger}
}

// Create creates an account and syncs its graph counterpart. Admin only.
func (s *PrincipalService) Create(ctx context.Context, actor domain.Principal, req domain.CreateUserRequest) (*domain.User, error) {
	if err := s.auth.Authorize(ctx, actor, domain.OpManageUsers, ""); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, &domain.User{
		Email:  req.Email,
		Name:   req.Name,
		Role:   req.Role,
		Active: true,
	})
	if err != nil {
		return nil, err
	}
	s.syncCounterpart(ctx, u)
	return u, nil
}

// Update applies a partial account update and re-syncs the counterpart.
// Admin only.
func (s *PrincipalService) Update(ctx context.Context, actor domain.Principal, id int64, req domain.UpdateUserRequest) (*domain.User, error) {
	if err := s.auth.Authorize(ctx, actor, domain.OpManageUsers, ""); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Role != nil {
		u.Role = *req.Role
	}

	updated, err := s.users.Update(ctx, u)
	if err != nil {
		return nil, err
	}
	s.syncCounterpart(ctx, updated)
	return updated, nil
}

// Deactivate soft-deletes an account. The row and its graph counterpart
// stay in place; authentication rejects inactive accounts. Admin only.
func (s *PrincipalService) Deactivate(ctx context.Context, actor domain.Principal, id int64) error {
	if err := s.auth.Authorize(ctx, actor, domain.OpManageUsers, ""); err != nil {
		return err
	}
	return s.users.SetActive(ctx, id, false)
}

// List returns all accounts. Admin only.
func (s *PrincipalService) List(ctx context.Context, actor domain.Principal) ([]domain.User, error) {
	if err := s.auth.Authorize(ctx, actor, domain.OpManageUsers, ""); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// Get returns one account. Admins may read any account; everyone else
// only their own.
func (s *PrincipalService) Get(ctx context.Context, actor domain.Principal, id int64) (*domain.User, error) {
	if !actor.IsAdmin() && actor.ID != strconv.FormatInt(id, 10) {
		return nil, &domain.AccessDeniedError{
			Message: "operation requires the ADMIN role",
			Reason:  domain.ReasonAdminOnly,
		}
	}
	return s.users.GetByID(ctx, id)
}

// syncCounterpart mirrors the account into its graph user node. A store
// outage here must not fail the relational write that already happened;
// the next successful sync repairs the counterpart.
func (s *PrincipalService) syncCounterpart(ctx context.Context, u *domain.User) {
	_, err := s.graph.MergeUserNode(ctx, u.ExternalID(), map[string]any{
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	})
	if err != nil {
		var unavailable *domain.UnavailableError
		if errors.As(err, &unavailable) {
			s.logger.Warn("graph store unavailable during account sync",
				"user_id", u.ExternalID(), "error", err)
			return
		}
		s.logger.Error("account counterpart sync failed",
			"user_id", u.ExternalID(), "error", err)
	}
}
