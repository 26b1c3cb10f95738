package domain

import "context"

// GraphStore is the durable node/edge storage adapter. Implementations
// must report transient connectivity failures as UnavailableError,
// distinct from NotFoundError.
type GraphStore interface {
	// CreateNode persists a new node of the given kind and returns it with
	// a fresh uid and timestamps.
	CreateNode(ctx context.Context, kind NodeKind, props map[string]any) (*GraphNode, error)

	// MergeUserNode creates or updates the graph counterpart of a
	// relational account, keyed by the stable external id.
	MergeUserNode(ctx context.Context, externalID string, props map[string]any) (*GraphNode, error)

	// GetNode returns a node by kind and uid, or NotFoundError.
	GetNode(ctx context.Context, kind NodeKind, uid string) (*GraphNode, error)

	// FilterNodes returns all nodes of the kind whose named property
	// equals value.
	FilterNodes(ctx context.Context, kind NodeKind, propKey, propValue string) ([]GraphNode, error)

	// ListNodes returns all nodes of the kind in creation order.
	ListNodes(ctx context.Context, kind NodeKind) ([]GraphNode, error)

	// NodesVia returns the target nodes of every edge of the given kind
	// leaving fromUID.
	NodesVia(ctx context.Context, edge EdgeKind, fromUID string) ([]GraphNode, error)

	// UpdateProps merges the given properties into the node and refreshes
	// updated_at.
	UpdateProps(ctx context.Context, uid string, props map[string]any) error

	// Touch refreshes updated_at, healing an unset created_at on
	// partially-initialized legacy nodes.
	Touch(ctx context.Context, uid string) error

	// DeleteNode removes the node and every edge attached to it.
	DeleteNode(ctx context.Context, uid string) error

	// Connect creates a directed edge. Connecting an existing edge is a
	// no-op.
	Connect(ctx context.Context, edge EdgeKind, fromUID, toUID string) error

	// DisconnectAll removes every edge of the kind targeting toUID and
	// reports how many were removed.
	DisconnectAll(ctx context.Context, edge EdgeKind, toUID string) (int64, error)

	// InTx runs fn inside a single store transaction. The reassignment
	// protocol relies on this to keep its disconnect+connect sequence
	// invisible to concurrent readers.
	InTx(ctx context.Context, fn func(GraphTx) error) error
}

// GraphTx is the edge surface available inside a store transaction.
type GraphTx interface {
	Connect(ctx context.Context, edge EdgeKind, fromUID, toUID string) error
	DisconnectAll(ctx context.Context, edge EdgeKind, toUID string) (int64, error)
	SourcesOf(ctx context.Context, edge EdgeKind, toUID string) ([]string, error)
}

// OwnershipIndex provides the pure traversal reads used as the evidence
// layer for authorization. It never enforces invariants; that is the
// reassignment protocol's job.
type OwnershipIndex interface {
	IsConnected(ctx context.Context, edge EdgeKind, fromUID, toUID string) (bool, error)
	TargetsOf(ctx context.Context, edge EdgeKind, fromUID string) ([]string, error)
	SourcesOf(ctx context.Context, edge EdgeKind, toUID string) ([]string, error)
}

// UserRepository is the relational account store.
type UserRepository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) (*User, error)
	SetActive(ctx context.Context, id int64, active bool) error
}
