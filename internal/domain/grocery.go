package domain

import "time"

// Grocery is the root of an ownership subtree.
type Grocery struct {
	UID       string
	Name      string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time

	// ResponsibleSupplierID is the external id of the supplier holding the
	// live RESPONSIBLE_FOR edge, empty when unassigned.
	ResponsibleSupplierID string
}

// GroceryFromNode maps a raw grocery node to its typed form. The
// responsible supplier is filled in separately by the caller when needed.
func GroceryFromNode(n *GraphNode) *Grocery {
	return &Grocery{
		UID:       n.UID,
		Name:      n.StringProp("name"),
		Location:  n.StringProp("location"),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// Props returns the persisted property map for the grocery.
func (g *Grocery) Props() map[string]any {
	return map[string]any{
		"name":     g.Name,
		"location": g.Location,
	}
}

// CreateGroceryRequest holds parameters for creating a grocery.
// ResponsibleSupplierID, when set, links that supplier atomically with
// creation.
type CreateGroceryRequest struct {
	Name                  string
	Location              string
	ResponsibleSupplierID *string
}

// Validate checks that the request is well-formed.
func (r *CreateGroceryRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("name is required")
	}
	if r.Location == "" {
		return ErrValidation("location is required")
	}
	return nil
}

// UpdateGroceryRequest holds a partial grocery update. Nil fields are left
// untouched. A non-nil empty ResponsibleSupplierID clears the responsible
// supplier (transition to Unassigned).
type UpdateGroceryRequest struct {
	Name                  *string
	Location              *string
	ResponsibleSupplierID *string
}

// Validate checks that the request is well-formed.
func (r *UpdateGroceryRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return ErrValidation("name must not be empty")
	}
	if r.Location != nil && *r.Location == "" {
		return ErrValidation("location must not be empty")
	}
	return nil
}
