package service

import (
	"context"
	"time"

	"grocery-graph/internal/domain"
)

// ItemService manages the item lifecycle under a grocery: create, partial
// update, soft delete, and visibility-filtered listing.
type ItemService struct {
	graph     domain.GraphStore
	ownership domain.OwnershipIndex
	auth      *AuthorizationService
}

// NewItemService creates an ItemService.
func NewItemService(graph domain.GraphStore, ownership domain.OwnershipIndex, auth *AuthorizationService) *ItemService {
	return &ItemService{graph: graph, ownership: ownership, auth: auth}
}

// List returns the grocery's items, excluding soft-deleted ones unless
// includeDeleted is set.
func (s *ItemService) List(ctx context.Context, p domain.Principal, groceryUID string, includeDeleted bool) ([]domain.Item, error) {
	if _, err := s.graph.GetNode(ctx, domain.KindGrocery, groceryUID); err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, p, domain.OpReadItems, groceryUID); err != nil {
		return nil, err
	}

	nodes, err := s.graph.NodesVia(ctx, domain.EdgeHasItem, groceryUID)
	if err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(nodes))
	for i := range nodes {
		it := domain.ItemFromNode(&nodes[i])
		if it.IsDeleted && !includeDeleted {
			continue
		}
		items = append(items, *it)
	}
	return items, nil
}

// Create creates an item under the grocery and connects it via HAS_ITEM.
func (s *ItemService) Create(ctx context.Context, p domain.Principal, groceryUID string, req domain.CreateItemRequest) (*domain.Item, error) {
	if _, err := s.graph.GetNode(ctx, domain.KindGrocery, groceryUID); err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, p, domain.OpMutateItems, groceryUID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	node, err := s.graph.CreateNode(ctx, domain.KindItem, (&domain.Item{
		Name:         req.Name,
		ItemType:     req.ItemType,
		ItemLocation: req.ItemLocation,
		Price:        *req.Price,
	}).Props())
	if err != nil {
		return nil, err
	}
	if err := s.graph.Connect(ctx, domain.EdgeHasItem, groceryUID, node.UID); err != nil {
		return nil, err
	}

	return s.reload(ctx, node.UID)
}

// Get returns one item, verifying it both exists and is reachable from the
// given grocery via HAS_ITEM. An item uid alone is not sufficient scope:
// guessing item ids across groceries yields NotFound.
func (s *ItemService) Get(ctx context.Context, p domain.Principal, groceryUID, itemUID string) (*domain.Item, error) {
	node, err := s.attachedItem(ctx, groceryUID, itemUID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, p, domain.OpReadItems, groceryUID); err != nil {
		return nil, err
	}
	return domain.ItemFromNode(node), nil
}

// Update applies a partial field merge and re-touches the item.
func (s *ItemService) Update(ctx context.Context, p domain.Principal, groceryUID, itemUID string, req domain.UpdateItemRequest) (*domain.Item, error) {
	if _, err := s.attachedItem(ctx, groceryUID, itemUID); err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, p, domain.OpMutateItems, groceryUID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	props := map[string]any{}
	if req.Name != nil {
		props["name"] = *req.Name
	}
	if req.ItemType != nil {
		props["item_type"] = *req.ItemType
	}
	if req.ItemLocation != nil {
		props["item_location"] = *req.ItemLocation
	}
	if req.Price != nil {
		props["price"] = *req.Price
	}
	if len(props) > 0 {
		if err := s.graph.UpdateProps(ctx, itemUID, props); err != nil {
			return nil, err
		}
	}
	if err := s.graph.Touch(ctx, itemUID); err != nil {
		return nil, err
	}

	return s.reload(ctx, itemUID)
}

// SoftDelete marks the item logically removed. The node and its HAS_ITEM
// edge stay in storage; default listings hide it.
func (s *ItemService) SoftDelete(ctx context.Context, p domain.Principal, groceryUID, itemUID string) error {
	if _, err := s.attachedItem(ctx, groceryUID, itemUID); err != nil {
		return err
	}
	if err := s.auth.Authorize(ctx, p, domain.OpMutateItems, groceryUID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.graph.UpdateProps(ctx, itemUID, map[string]any{
		"is_deleted": true,
		"deleted_at": now.Format(time.RFC3339Nano),
	}); err != nil {
		return err
	}
	return s.graph.Touch(ctx, itemUID)
}

// attachedItem resolves the grocery and the item, requiring the HAS_ITEM
// edge between them. All three failures collapse into NotFound before any
// authorization decision happens.
func (s *ItemService) attachedItem(ctx context.Context, groceryUID, itemUID string) (*domain.GraphNode, error) {
	if _, err := s.graph.GetNode(ctx, domain.KindGrocery, groceryUID); err != nil {
		return nil, err
	}
	node, err := s.graph.GetNode(ctx, domain.KindItem, itemUID)
	if err != nil {
		return nil, err
	}
	attached, err := s.ownership.IsConnected(ctx, domain.EdgeHasItem, groceryUID, itemUID)
	if err != nil {
		return nil, err
	}
	if !attached {
		return nil, domain.ErrNotFound("item %s not found under grocery %s", itemUID, groceryUID)
	}
	return node, nil
}

func (s *ItemService) reload(ctx context.Context, itemUID string) (*domain.Item, error) {
	node, err := s.graph.GetNode(ctx, domain.KindItem, itemUID)
	if err != nil {
		return nil, err
	}
	return domain.ItemFromNode(node), nil
}
