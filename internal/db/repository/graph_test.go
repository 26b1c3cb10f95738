package repository

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "grocery-graph/internal/db"
	"grocery-graph/internal/domain"
)

func setupGraphRepo(t *testing.T) (*GraphRepo, *OwnershipRepo) {
	t.Helper()
	writeDB, readDB := internaldb.OpenTestSQLite(t)
	return NewGraphRepo(writeDB), NewOwnershipRepo(readDB)
}

func TestGraphRepo_NodeCRUD(t *testing.T) {
	graph, _ := setupGraphRepo(t)
	ctx := context.Background()

	// Create.
	n, err := graph.CreateNode(ctx, domain.KindGrocery, map[string]any{
		"name":     "Corner Shop",
		"location": "Main St 1",
	})
	require.NoError(t, err)
	assert.Len(t, n.UID, 32)
	assert.False(t, n.CreatedAt.IsZero())

	// Get.
	found, err := graph.GetNode(ctx, domain.KindGrocery, n.UID)
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", found.StringProp("name"))
	assert.Equal(t, "Main St 1", found.StringProp("location"))

	// Partial props update leaves the other keys intact.
	err = graph.UpdateProps(ctx, n.UID, map[string]any{"name": "Corner Shop 2"})
	require.NoError(t, err)
	found, err = graph.GetNode(ctx, domain.KindGrocery, n.UID)
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop 2", found.StringProp("name"))
	assert.Equal(t, "Main St 1", found.StringProp("location"))

	// Delete.
	require.NoError(t, graph.DeleteNode(ctx, n.UID))
	_, err = graph.GetNode(ctx, domain.KindGrocery, n.UID)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestGraphRepo_GetNode_KindMismatch(t *testing.T) {
	graph, _ := setupGraphRepo(t)
	ctx := context.Background()

	n, err := graph.CreateNode(ctx, domain.KindItem, map[string]any{"name": "milk"})
	require.NoError(t, err)

	_, err = graph.GetNode(ctx, domain.KindGrocery, n.UID)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestGraphRepo_FilterNodes(t *testing.T) {
	graph, _ := setupGraphRepo(t)
	ctx := context.Background()

	_, err := graph.CreateNode(ctx, domain.KindUser, map[string]any{"user_id": "7", "name": "sam"})
	require.NoError(t, err)
	_, err = graph.CreateNode(ctx, domain.KindUser, map[string]any{"user_id": "8", "name": "kim"})
	require.NoError(t, err)

	nodes, err := graph.FilterNodes(ctx, domain.KindUser, "user_id", "7")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "sam", nodes[0].StringProp("name"))

	nodes, err = graph.FilterNodes(ctx, domain.KindUser, "user_id", "99")
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestGraphRepo_MergeUserNode(t *testing.T) {
	graph, _ := setupGraphRepo(t)
	ctx := context.Background()

	created, err := graph.MergeUserNode(ctx, "42", map[string]any{"name": "sam", "role": "SUPPLIER"})
	require.NoError(t, err)
	assert.Equal(t, "42", created.StringProp("user_id"))

	// Merge again: same uid, updated props.
	merged, err := graph.MergeUserNode(ctx, "42", map[string]any{"name": "samuel"})
	require.NoError(t, err)
	assert.Equal(t, created.UID, merged.UID)

	nodes, err := graph.FilterNodes(ctx, domain.KindUser, "user_id", "42")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "samuel", nodes[0].StringProp("name"))
	assert.Equal(t, "SUPPLIER", nodes[0].StringProp("role"))
}

func TestGraphRepo_UniqueUserExternalID(t *testing.T) {
	graph, _ := setupGraphRepo(t)
	ctx := context.Background()

	_, err := graph.CreateNode(ctx, domain.KindUser, map[string]any{"user_id": "1"})
	require.NoError(t, err)

	_, err = graph.CreateNode(ctx, domain.KindUser, map[string]any{"user_id": "1"})
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestGraphRepo_EdgesAndTraversal(t *testing.T) {
	graph, ownership := setupGraphRepo(t)
	ctx := context.Background()

	grocery, err := graph.CreateNode(ctx, domain.KindGrocery, map[string]any{"name": "g"})
	require.NoError(t, err)
	a, err := graph.CreateNode(ctx, domain.KindItem, map[string]any{"name": "a"})
	require.NoError(t, err)
	b, err := graph.CreateNode(ctx, domain.KindItem, map[string]any{"name": "b"})
	require.NoError(t, err)

	require.NoError(t, graph.Connect(ctx, domain.EdgeHasItem, grocery.UID, a.UID))
	require.NoError(t, graph.Connect(ctx, domain.EdgeHasItem, grocery.UID, b.UID))
	// Connecting the same edge twice is a no-op.
	require.NoError(t, graph.Connect(ctx, domain.EdgeHasItem, grocery.UID, a.UID))

	items, err := graph.NodesVia(ctx, domain.EdgeHasItem, grocery.UID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	connected, err := ownership.IsConnected(ctx, domain.EdgeHasItem, grocery.UID, a.UID)
	require.NoError(t, err)
	assert.True(t, connected)

	targets, err := ownership.TargetsOf(ctx, domain.EdgeHasItem, grocery.UID)
	require.NoError(t, err)
	assert.Len(t, targets, 2)

	sources, err := ownership.SourcesOf(ctx, domain.EdgeHasItem, a.UID)
	require.NoError(t, err)
	assert.Equal(t, []string{grocery.UID}, sources)
}

func TestGraphRepo_DeleteNodeCascadesEdges(t *testing.T) {
	graph, ownership := setupGraphRepo(t)
	ctx := context.Background()

	grocery, err := graph.CreateNode(ctx, domain.KindGrocery, map[string]any{"name": "g"})
	require.NoError(t, err)
	item, err := graph.CreateNode(ctx, domain.KindItem, map[string]any{"name": "i"})
	require.NoError(t, err)
	require.NoError(t, graph.Connect(ctx, domain.EdgeHasItem, grocery.UID, item.UID))

	require.NoError(t, graph.DeleteNode(ctx, grocery.UID))

	sources, err := ownership.SourcesOf(ctx, domain.EdgeHasItem, item.UID)
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestGraphRepo_ResponsibleSingletonIndex(t *testing.T) {
	graph, _ := setupGraphRepo(t)
	ctx := context.Background()

	grocery, err := graph.CreateNode(ctx, domain.KindGrocery, map[string]any{"name": "g"})
	require.NoError(t, err)
	s1, err := graph.CreateNode(ctx, domain.KindUser, map[string]any{"user_id": "1"})
	require.NoError(t, err)
	s2, err := graph.CreateNode(ctx, domain.KindUser, map[string]any{"user_id": "2"})
	require.NoError(t, err)

	require.NoError(t, graph.Connect(ctx, domain.EdgeResponsibleFor, s1.UID, grocery.UID))

	// A second responsible edge into the same grocery violates the
	// partial unique index.
	err = graph.Connect(ctx, domain.EdgeResponsibleFor, s2.UID, grocery.UID)
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestGraphRepo_DisconnectAll(t *testing.T) {
	graph, _ := setupGraphRepo(t)
	ctx := context.Background()

	grocery, err := graph.CreateNode(ctx, domain.KindGrocery, map[string]any{"name": "g"})
	require.NoError(t, err)
	s1, err := graph.CreateNode(ctx, domain.KindUser, map[string]any{"user_id": "1"})
	require.NoError(t, err)
	require.NoError(t, graph.Connect(ctx, domain.EdgeResponsibleFor, s1.UID, grocery.UID))

	n, err := graph.DisconnectAll(ctx, domain.EdgeResponsibleFor, grocery.UID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = graph.DisconnectAll(ctx, domain.EdgeResponsibleFor, grocery.UID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestGraphRepo_InTxRollsBackOnError(t *testing.T) {
	graph, ownership := setupGraphRepo(t)
	ctx := context.Background()

	grocery, err := graph.CreateNode(ctx, domain.KindGrocery, map[string]any{"name": "g"})
	require.NoError(t, err)
	s1, err := graph.CreateNode(ctx, domain.KindUser, map[string]any{"user_id": "1"})
	require.NoError(t, err)
	require.NoError(t, graph.Connect(ctx, domain.EdgeResponsibleFor, s1.UID, grocery.UID))

	err = graph.InTx(ctx, func(tx domain.GraphTx) error {
		if _, err := tx.DisconnectAll(ctx, domain.EdgeResponsibleFor, grocery.UID); err != nil {
			return err
		}
		return domain.ErrValidation("forced rollback")
	})
	require.Error(t, err)

	// The disconnect inside the failed transaction must not be visible.
	sources, err := ownership.SourcesOf(ctx, domain.EdgeResponsibleFor, grocery.UID)
	require.NoError(t, err)
	assert.Equal(t, []string{s1.UID}, sources)
}

func TestGraphRepo_Touch(t *testing.T) {
	graph, _ := setupGraphRepo(t)
	ctx := context.Background()

	n, err := graph.CreateNode(ctx, domain.KindGrocery, map[string]any{"name": "g"})
	require.NoError(t, err)

	require.NoError(t, graph.Touch(ctx, n.UID))

	found, err := graph.GetNode(ctx, domain.KindGrocery, n.UID)
	require.NoError(t, err)
	assert.False(t, found.UpdatedAt.Before(found.CreatedAt))

	err = graph.Touch(ctx, "missing-uid")
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
