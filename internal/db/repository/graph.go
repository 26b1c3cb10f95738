package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"grocery-graph/internal/domain"
)

// GraphRepo is the SQLite-backed graph store adapter. It persists nodes
// and typed directed edges and exposes the transactional scope the
// reassignment protocol needs. Open it on the write pool.
type GraphRepo struct {
	graphOps
	db *sql.DB
}

// NewGraphRepo creates a GraphRepo on the given pool.
func NewGraphRepo(db *sql.DB) *GraphRepo {
	return &GraphRepo{graphOps: graphOps{q: db}, db: db}
}

var _ domain.GraphStore = (*GraphRepo)(nil)

// InTx runs fn inside a single transaction. The edge surface handed to fn
// shares the graph primitives with the non-transactional path.
func (r *GraphRepo) InTx(ctx context.Context, fn func(domain.GraphTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapDBError(err)
	}
	if err := fn(&graphTx{graphOps{q: tx}}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapDBError(err)
	}
	return nil
}

// graphTx narrows graphOps to the domain.GraphTx surface.
type graphTx struct {
	graphOps
}

var _ domain.GraphTx = (*graphTx)(nil)

// graphOps holds the node/edge primitives, parameterized over a direct
// pool or an open transaction.
type graphOps struct {
	q queryer
}

const nodeColumns = `uid, kind, props, created_at, updated_at`

func (o graphOps) CreateNode(ctx context.Context, kind domain.NodeKind, props map[string]any) (*domain.GraphNode, error) {
	if props == nil {
		props = map[string]any{}
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("marshal node props: %w", err)
	}

	now := time.Now().UTC()
	uid := domain.NewUID()
	_, err = o.q.ExecContext(ctx,
		`INSERT INTO nodes (uid, kind, props, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		uid, string(kind), string(raw), unixF(now), unixF(now))
	if err != nil {
		return nil, mapDBError(err)
	}

	return &domain.GraphNode{UID: uid, Kind: kind, Props: props, CreatedAt: now, UpdatedAt: now}, nil
}

// MergeUserNode upserts the graph counterpart of a relational account.
// An existing counterpart keeps its uid and created_at; only the synced
// properties and updated_at change.
func (o graphOps) MergeUserNode(ctx context.Context, externalID string, props map[string]any) (*domain.GraphNode, error) {
	if props == nil {
		props = map[string]any{}
	}
	props["user_id"] = externalID

	existing, err := o.FilterNodes(ctx, domain.KindUser, "user_id", externalID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return o.CreateNode(ctx, domain.KindUser, props)
	}

	// Duplicate counterparts are a data-integrity anomaly; merge into the
	// first and leave the rest for manual repair rather than guessing.
	node := existing[0]
	if err := o.UpdateProps(ctx, node.UID, props); err != nil {
		return nil, err
	}
	for k, v := range props {
		node.Props[k] = v
	}
	return &node, nil
}

func (o graphOps) GetNode(ctx context.Context, kind domain.NodeKind, uid string) (*domain.GraphNode, error) {
	row := o.q.QueryRowContext(ctx,
		`SELECT `+nodeColumns+` FROM nodes WHERE kind = ? AND uid = ?`,
		string(kind), uid)
	return scanNode(row)
}

func (o graphOps) FilterNodes(ctx context.Context, kind domain.NodeKind, propKey, propValue string) ([]domain.GraphNode, error) {
	rows, err := o.q.QueryContext(ctx,
		`SELECT `+nodeColumns+` FROM nodes WHERE kind = ? AND json_extract(props, ?) = ? ORDER BY created_at`,
		string(kind), "$."+propKey, propValue)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

func (o graphOps) ListNodes(ctx context.Context, kind domain.NodeKind) ([]domain.GraphNode, error) {
	rows, err := o.q.QueryContext(ctx,
		`SELECT `+nodeColumns+` FROM nodes WHERE kind = ? ORDER BY created_at, uid`,
		string(kind))
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

func (o graphOps) NodesVia(ctx context.Context, edge domain.EdgeKind, fromUID string) ([]domain.GraphNode, error) {
	rows, err := o.q.QueryContext(ctx,
		`SELECT n.uid, n.kind, n.props, n.created_at, n.updated_at
		   FROM edges e
		   JOIN nodes n ON n.uid = e.to_uid
		  WHERE e.edge_type = ? AND e.from_uid = ?
		  ORDER BY n.created_at, n.uid`,
		string(edge), fromUID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

func (o graphOps) UpdateProps(ctx context.Context, uid string, props map[string]any) error {
	raw, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshal node props: %w", err)
	}
	res, err := o.q.ExecContext(ctx,
		`UPDATE nodes SET props = json_patch(props, ?), updated_at = ? WHERE uid = ?`,
		string(raw), unixF(time.Now().UTC()), uid)
	if err != nil {
		return mapDBError(err)
	}
	return requireRowAffected(res, "node "+uid)
}

// Touch refreshes updated_at and heals an unset created_at on
// partially-initialized legacy nodes.
func (o graphOps) Touch(ctx context.Context, uid string) error {
	now := unixF(time.Now().UTC())
	res, err := o.q.ExecContext(ctx,
		`UPDATE nodes
		    SET updated_at = ?,
		        created_at = CASE WHEN created_at IS NULL OR created_at = 0 THEN ? ELSE created_at END
		  WHERE uid = ?`,
		now, now, uid)
	if err != nil {
		return mapDBError(err)
	}
	return requireRowAffected(res, "node "+uid)
}

// DeleteNode hard-deletes the node; the schema cascades every attached
// edge in the same statement.
func (o graphOps) DeleteNode(ctx context.Context, uid string) error {
	res, err := o.q.ExecContext(ctx, `DELETE FROM nodes WHERE uid = ?`, uid)
	if err != nil {
		return mapDBError(err)
	}
	return requireRowAffected(res, "node "+uid)
}

func (o graphOps) Connect(ctx context.Context, edge domain.EdgeKind, fromUID, toUID string) error {
	_, err := o.q.ExecContext(ctx,
		`INSERT INTO edges (edge_type, from_uid, to_uid, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (edge_type, from_uid, to_uid) DO NOTHING`,
		string(edge), fromUID, toUID, unixF(time.Now().UTC()))
	return mapDBError(err)
}

func (o graphOps) DisconnectAll(ctx context.Context, edge domain.EdgeKind, toUID string) (int64, error) {
	res, err := o.q.ExecContext(ctx,
		`DELETE FROM edges WHERE edge_type = ? AND to_uid = ?`,
		string(edge), toUID)
	if err != nil {
		return 0, mapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapDBError(err)
	}
	return n, nil
}

func (o graphOps) IsConnected(ctx context.Context, edge domain.EdgeKind, fromUID, toUID string) (bool, error) {
	var connected bool
	err := o.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM edges WHERE edge_type = ? AND from_uid = ? AND to_uid = ?)`,
		string(edge), fromUID, toUID).Scan(&connected)
	if err != nil {
		return false, mapDBError(err)
	}
	return connected, nil
}

func (o graphOps) TargetsOf(ctx context.Context, edge domain.EdgeKind, fromUID string) ([]string, error) {
	return o.edgeEndpoints(ctx,
		`SELECT to_uid FROM edges WHERE edge_type = ? AND from_uid = ? ORDER BY created_at, to_uid`,
		edge, fromUID)
}

func (o graphOps) SourcesOf(ctx context.Context, edge domain.EdgeKind, toUID string) ([]string, error) {
	return o.edgeEndpoints(ctx,
		`SELECT from_uid FROM edges WHERE edge_type = ? AND to_uid = ? ORDER BY created_at, from_uid`,
		edge, toUID)
}

func (o graphOps) edgeEndpoints(ctx context.Context, query string, edge domain.EdgeKind, uid string) ([]string, error) {
	rows, err := o.q.QueryContext(ctx, query, string(edge), uid)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var uids []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, mapDBError(err)
		}
		uids = append(uids, u)
	}
	return uids, mapDBError(rows.Err())
}

// --- scanning ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*domain.GraphNode, error) {
	var (
		n       domain.GraphNode
		kind    string
		raw     string
		created sql.NullFloat64
		updated sql.NullFloat64
	)
	if err := row.Scan(&n.UID, &kind, &raw, &created, &updated); err != nil {
		return nil, mapDBError(err)
	}
	n.Kind = domain.NodeKind(kind)
	if err := json.Unmarshal([]byte(raw), &n.Props); err != nil {
		return nil, fmt.Errorf("unmarshal props of node %s: %w", n.UID, err)
	}
	n.CreatedAt = timeFromUnixF(created.Float64)
	n.UpdatedAt = timeFromUnixF(updated.Float64)
	return &n, nil
}

func scanNodes(rows *sql.Rows) ([]domain.GraphNode, error) {
	var nodes []domain.GraphNode
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *n)
	}
	return nodes, mapDBError(rows.Err())
}

func requireRowAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapDBError(err)
	}
	if n == 0 {
		return domain.ErrNotFound("%s not found", what)
	}
	return nil
}
