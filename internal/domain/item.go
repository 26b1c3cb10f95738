package domain

import "time"

// Item belongs to exactly one grocery for its lifetime. Items are never
// hard-deleted: deletion sets IsDeleted and DeletedAt and hides the item
// from default listings.
type Item struct {
	UID          string
	Name         string
	ItemType     string
	ItemLocation string
	Price        float64
	IsDeleted    bool
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ItemFromNode maps a raw item node to its typed form.
func ItemFromNode(n *GraphNode) *Item {
	it := &Item{
		UID:          n.UID,
		Name:         n.StringProp("name"),
		ItemType:     n.StringProp("item_type"),
		ItemLocation: n.StringProp("item_location"),
		Price:        n.FloatProp("price"),
		IsDeleted:    n.BoolProp("is_deleted"),
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
	if s := n.StringProp("deleted_at"); s != "" {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			it.DeletedAt = &t
		}
	}
	return it
}

// Props returns the persisted property map for the item.
func (i *Item) Props() map[string]any {
	p := map[string]any{
		"name":          i.Name,
		"item_type":     i.ItemType,
		"item_location": i.ItemLocation,
		"price":         i.Price,
		"is_deleted":    i.IsDeleted,
	}
	if i.DeletedAt != nil {
		p["deleted_at"] = i.DeletedAt.UTC().Format(time.RFC3339Nano)
	}
	return p
}

// CreateItemRequest holds parameters for creating an item under a grocery.
type CreateItemRequest struct {
	Name         string
	ItemType     string
	ItemLocation string
	Price        *float64
}

// Validate checks that the request is well-formed.
func (r *CreateItemRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("name is required")
	}
	if r.ItemType == "" {
		return ErrValidation("item_type is required")
	}
	if r.ItemLocation == "" {
		return ErrValidation("item_location is required")
	}
	if r.Price == nil {
		return ErrValidation("price is required")
	}
	if *r.Price < 0 {
		return ErrValidation("price must be non-negative")
	}
	return nil
}

// UpdateItemRequest holds a partial item update. Nil fields are left
// untouched.
type UpdateItemRequest struct {
	Name         *string
	ItemType     *string
	ItemLocation *string
	Price        *float64
}

// Validate checks that the request is well-formed.
func (r *UpdateItemRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return ErrValidation("name must not be empty")
	}
	if r.ItemType != nil && *r.ItemType == "" {
		return ErrValidation("item_type must not be empty")
	}
	if r.ItemLocation != nil && *r.ItemLocation == "" {
		return ErrValidation("item_location must not be empty")
	}
	if r.Price != nil && *r.Price < 0 {
		return ErrValidation("price must be non-negative")
	}
	return nil
}
