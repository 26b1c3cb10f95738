package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	internaldb "grocery-graph/internal/db"
	"grocery-graph/internal/db/repository"
	"grocery-graph/internal/domain"
)

// fixture wires the full service stack over a temp SQLite graph store.
type fixture struct {
	writeDB    *sql.DB
	graph      *repository.GraphRepo
	ownership  *repository.OwnershipRepo
	users      *repository.UserRepo
	auth       *AuthorizationService
	groceries  *GroceryService
	items      *ItemService
	incomes    *IncomeService
	principals *PrincipalService

	admin domain.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	writeDB, readDB := internaldb.OpenTestSQLite(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	graph := repository.NewGraphRepo(writeDB)
	ownership := repository.NewOwnershipRepo(readDB)
	users := repository.NewUserRepo(writeDB)
	auth := NewAuthorizationService(graph, ownership)

	f := &fixture{
		writeDB:    writeDB,
		graph:      graph,
		ownership:  ownership,
		users:      users,
		auth:       auth,
		groceries:  NewGroceryService(graph, ownership, auth, logger),
		items:      NewItemService(graph, ownership, auth),
		incomes:    NewIncomeService(graph, auth),
		principals: NewPrincipalService(users, graph, auth, logger),
	}

	admin, err := f.principals.Create(context.Background(),
		domain.Principal{ID: "0", Role: domain.RoleAdmin},
		domain.CreateUserRequest{Email: "admin@example.com", Name: "Admin", Role: domain.RoleAdmin})
	require.NoError(t, err)
	f.admin = domain.PrincipalFromUser(admin)

	return f
}

// newSupplier creates a supplier account with a synced graph counterpart.
func (f *fixture) newSupplier(t *testing.T, email, name string) domain.Principal {
	t.Helper()
	u, err := f.principals.Create(context.Background(), f.admin,
		domain.CreateUserRequest{Email: email, Name: name, Role: domain.RoleSupplier})
	require.NoError(t, err)
	return domain.PrincipalFromUser(u)
}

// newGrocery creates a grocery, optionally assigned to the supplier with
// the given external id.
func (f *fixture) newGrocery(t *testing.T, name, supplierID string) *domain.Grocery {
	t.Helper()
	req := domain.CreateGroceryRequest{Name: name, Location: "Main St 1"}
	if supplierID != "" {
		req.ResponsibleSupplierID = &supplierID
	}
	g, err := f.groceries.Create(context.Background(), f.admin, req)
	require.NoError(t, err)
	return g
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }
