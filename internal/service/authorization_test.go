package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-graph/internal/domain"
)

func TestAuthorize_AdminAllowedEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g := f.newGrocery(t, "Shop", "")

	ops := []domain.Operation{
		domain.OpReadGrocery, domain.OpCreateGrocery, domain.OpUpdateGrocery,
		domain.OpDeleteGrocery, domain.OpReadItems, domain.OpMutateItems,
		domain.OpRecordIncome, domain.OpReadIncomes, domain.OpReadIncomesMine,
		domain.OpManageUsers,
	}
	for _, op := range ops {
		assert.NoError(t, f.auth.Authorize(ctx, f.admin, op, g.UID), "op %s", op)
	}
}

func TestAuthorize_OpenReads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier := f.newSupplier(t, "s@example.com", "S")
	g := f.newGrocery(t, "Shop", "")

	// Grocery and item reads are open even without responsibility.
	assert.NoError(t, f.auth.Authorize(ctx, supplier, domain.OpReadGrocery, g.UID))
	assert.NoError(t, f.auth.Authorize(ctx, supplier, domain.OpReadItems, g.UID))
}

func TestAuthorize_ResponsibilityGatesMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.newSupplier(t, "s1@example.com", "S1")
	s2 := f.newSupplier(t, "s2@example.com", "S2")
	g := f.newGrocery(t, "Shop", s1.ID)

	assert.NoError(t, f.auth.Authorize(ctx, s1, domain.OpMutateItems, g.UID))
	assert.NoError(t, f.auth.Authorize(ctx, s1, domain.OpRecordIncome, g.UID))

	err := f.auth.Authorize(ctx, s2, domain.OpMutateItems, g.UID)
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, domain.ReasonNotResponsible, denied.Reason)
}

func TestAuthorize_IncomeReads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.newSupplier(t, "s1@example.com", "S1")
	s2 := f.newSupplier(t, "s2@example.com", "S2")
	g := f.newGrocery(t, "Shop", s1.ID)

	// Unscoped income reads stay admin-only, responsible or not.
	var denied *domain.AccessDeniedError
	err := f.auth.Authorize(ctx, s1, domain.OpReadIncomes, g.UID)
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, domain.ReasonIncomeReadForbidden, denied.Reason)

	// Mine-scoped reads follow responsibility.
	assert.NoError(t, f.auth.Authorize(ctx, s1, domain.OpReadIncomesMine, g.UID))

	err = f.auth.Authorize(ctx, s2, domain.OpReadIncomesMine, g.UID)
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, domain.ReasonIncomeReadForbidden, denied.Reason)
}

func TestAuthorize_GroceryManagementAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.newSupplier(t, "s1@example.com", "S1")
	g := f.newGrocery(t, "Shop", s1.ID)

	// Even the responsible supplier cannot manage the grocery itself.
	for _, op := range []domain.Operation{domain.OpCreateGrocery, domain.OpUpdateGrocery, domain.OpDeleteGrocery, domain.OpManageUsers} {
		err := f.auth.Authorize(ctx, s1, op, g.UID)
		var denied *domain.AccessDeniedError
		require.ErrorAs(t, err, &denied, "op %s", op)
		assert.Equal(t, domain.ReasonAdminOnly, denied.Reason, "op %s", op)
	}
}

func TestIsResponsible_MissingCounterpart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g := f.newGrocery(t, "Shop", "")

	// An account with no graph counterpart resolves to not responsible,
	// never an error.
	responsible, err := f.auth.IsResponsible(ctx, "9999", g.UID)
	require.NoError(t, err)
	assert.False(t, responsible)
}
