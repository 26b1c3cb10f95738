package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NodeKind labels the four node types stored in the graph.
type NodeKind string

const (
	KindUser    NodeKind = "user"
	KindGrocery NodeKind = "grocery"
	KindItem    NodeKind = "item"
	KindIncome  NodeKind = "income"
)

// EdgeKind labels the four directed relationship types.
type EdgeKind string

const (
	// EdgeManages connects an admin user to a grocery it created.
	// Append-only: set once at creation, never reassigned.
	EdgeManages EdgeKind = "MANAGES"
	// EdgeResponsibleFor connects the single responsible supplier to a
	// grocery. At most one live edge per grocery at all observable times.
	EdgeResponsibleFor EdgeKind = "RESPONSIBLE_FOR"
	// EdgeHasItem connects a grocery to an item it owns, for the item's
	// whole lifetime.
	EdgeHasItem EdgeKind = "HAS_ITEM"
	// EdgeRecorded connects a grocery to one of its daily income records.
	EdgeRecorded EdgeKind = "RECORDED"
)

// GraphNode is the raw representation of a stored node: an opaque uid, a
// kind, the kind-specific properties, and the bookkeeping timestamps.
type GraphNode struct {
	UID       string
	Kind      NodeKind
	Props     map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StringProp returns the named property as a string, or "" when absent.
func (n *GraphNode) StringProp(key string) string {
	s, _ := n.Props[key].(string)
	return s
}

// FloatProp returns the named property as a float64, or 0 when absent.
func (n *GraphNode) FloatProp(key string) float64 {
	f, _ := n.Props[key].(float64)
	return f
}

// BoolProp returns the named property as a bool, or false when absent.
func (n *GraphNode) BoolProp(key string) bool {
	b, _ := n.Props[key].(bool)
	return b
}

// NewUID generates an opaque 32-character lowercase hexadecimal node
// identifier, distinct from any relational id.
func NewUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
