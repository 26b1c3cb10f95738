// Package app provides application-level wiring and dependency injection:
// repositories over the SQLite pools, the authorization service, and the
// domain services the API handler needs.
package app

import (
	"context"
	"database/sql"
	"log/slog"

	"grocery-graph/internal/config"
	"grocery-graph/internal/db/repository"
	"grocery-graph/internal/service"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create itself:
// database handles, config, and the process logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups all service pointers that the API handler and router need.
type Services struct {
	Grocery   *service.GroceryService
	Item      *service.ItemService
	Income    *service.IncomeService
	Principal *service.PrincipalService
}

// App holds the fully-wired application: services plus the user repository
// the auth middleware resolves accounts through.
type App struct {
	Services Services
	Users    *repository.UserRepo
}

// New wires all repositories and services from the provided deps and runs
// the idempotent bootstrap seed.
func New(ctx context.Context, deps Deps) (*App, error) {
	// Graph writes go through the single-connection write pool; the
	// ownership index only traverses, so it reads from the read pool.
	graphRepo := repository.NewGraphRepo(deps.WriteDB)
	ownershipRepo := repository.NewOwnershipRepo(deps.ReadDB)
	userRepo := repository.NewUserRepo(deps.WriteDB)

	authSvc := service.NewAuthorizationService(graphRepo, ownershipRepo)

	grocerySvc := service.NewGroceryService(graphRepo, ownershipRepo, authSvc,
		deps.Logger.With("component", "grocery"))
	itemSvc := service.NewItemService(graphRepo, ownershipRepo, authSvc)
	incomeSvc := service.NewIncomeService(graphRepo, authSvc)
	principalSvc := service.NewPrincipalService(userRepo, graphRepo, authSvc,
		deps.Logger.With("component", "principal"))

	if err := seedBootstrapAdmin(ctx, userRepo, graphRepo, deps.Logger); err != nil {
		return nil, err
	}

	return &App{
		Services: Services{
			Grocery:   grocerySvc,
			Item:      itemSvc,
			Income:    incomeSvc,
			Principal: principalSvc,
		},
		Users: userRepo,
	}, nil
}
