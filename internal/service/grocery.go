package service

import (
	"context"
	"errors"
	"log/slog"

	"grocery-graph/internal/domain"
)

// GroceryService manages groceries and runs the responsible-supplier
// reassignment protocol.
type GroceryService struct {
	graph     domain.GraphStore
	ownership domain.OwnershipIndex
	auth      *AuthorizationService
	logger    *slog.Logger
}

// NewGroceryService creates a GroceryService.
func NewGroceryService(graph domain.GraphStore, ownership domain.OwnershipIndex, auth *AuthorizationService, logger *slog.Logger) *GroceryService {
	return &GroceryService{graph: graph, ownership: ownership, auth: auth, logger: logger}
}

// List returns all groceries. Readable by any authenticated principal.
func (s *GroceryService) List(ctx context.Context, p domain.Principal) ([]domain.Grocery, error) {
	if err := s.auth.Authorize(ctx, p, domain.OpReadGrocery, ""); err != nil {
		return nil, err
	}
	nodes, err := s.graph.ListNodes(ctx, domain.KindGrocery)
	if err != nil {
		return nil, err
	}
	groceries := make([]domain.Grocery, 0, len(nodes))
	for i := range nodes {
		g := domain.GroceryFromNode(&nodes[i])
		if err := s.fillResponsible(ctx, g); err != nil {
			return nil, err
		}
		groceries = append(groceries, *g)
	}
	return groceries, nil
}

// Create creates a grocery, links the creating admin via MANAGES, and
// optionally links a responsible supplier atomically with creation. The
// supplier is resolved before anything is written, so an unresolvable
// supplier leaves no partial grocery behind.
func (s *GroceryService) Create(ctx context.Context, p domain.Principal, req domain.CreateGroceryRequest) (*domain.Grocery, error) {
	if err := s.auth.Authorize(ctx, p, domain.OpCreateGrocery, ""); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var supplier *domain.GraphNode
	if req.ResponsibleSupplierID != nil && *req.ResponsibleSupplierID != "" {
		var err error
		supplier, err = resolveSupplierNode(ctx, s.graph, *req.ResponsibleSupplierID)
		if err != nil {
			return nil, err
		}
	}

	node, err := s.graph.CreateNode(ctx, domain.KindGrocery, (&domain.Grocery{
		Name:     req.Name,
		Location: req.Location,
	}).Props())
	if err != nil {
		return nil, err
	}

	// Link creator -> MANAGES. The counterpart node may lag behind a
	// freshly created account; skip the link rather than fail creation.
	creators, err := s.graph.FilterNodes(ctx, domain.KindUser, "user_id", p.ID)
	if err != nil {
		return nil, err
	}
	if len(creators) == 1 {
		if err := s.graph.Connect(ctx, domain.EdgeManages, creators[0].UID, node.UID); err != nil {
			return nil, err
		}
	} else {
		s.logger.Warn("no unique graph counterpart for creator, skipping MANAGES link",
			"external_id", p.ID, "grocery_uid", node.UID, "matches", len(creators))
	}

	if supplier != nil {
		if err := s.replaceResponsible(ctx, node.UID, supplier); err != nil {
			return nil, err
		}
	}

	if err := s.graph.Touch(ctx, node.UID); err != nil {
		return nil, err
	}
	return s.get(ctx, node.UID)
}

// Get returns one grocery with its current responsible supplier.
func (s *GroceryService) Get(ctx context.Context, p domain.Principal, uid string) (*domain.Grocery, error) {
	if err := s.auth.Authorize(ctx, p, domain.OpReadGrocery, uid); err != nil {
		return nil, err
	}
	return s.get(ctx, uid)
}

// Update applies a partial update. A present ResponsibleSupplierID runs
// the reassignment protocol: a non-empty value reassigns, an empty value
// clears to Unassigned. Existence is resolved before authorization.
func (s *GroceryService) Update(ctx context.Context, p domain.Principal, uid string, req domain.UpdateGroceryRequest) (*domain.Grocery, error) {
	if _, err := s.graph.GetNode(ctx, domain.KindGrocery, uid); err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, p, domain.OpUpdateGrocery, uid); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Resolve the new supplier before touching anything, so an update
	// carrying both a rename and an unresolvable supplier id fails whole.
	var (
		reassign bool
		supplier *domain.GraphNode
	)
	if req.ResponsibleSupplierID != nil {
		reassign = true
		if *req.ResponsibleSupplierID != "" {
			var err error
			supplier, err = resolveSupplierNode(ctx, s.graph, *req.ResponsibleSupplierID)
			if err != nil {
				return nil, err
			}
		}
	}

	props := map[string]any{}
	if req.Name != nil {
		props["name"] = *req.Name
	}
	if req.Location != nil {
		props["location"] = *req.Location
	}
	if len(props) > 0 {
		if err := s.graph.UpdateProps(ctx, uid, props); err != nil {
			return nil, err
		}
	}

	if reassign {
		if err := s.replaceResponsible(ctx, uid, supplier); err != nil {
			return nil, err
		}
	}

	if err := s.graph.Touch(ctx, uid); err != nil {
		return nil, err
	}
	return s.get(ctx, uid)
}

// Delete hard-deletes a grocery; the store cascades every edge attached
// to it. Items and incomes themselves are left in place.
func (s *GroceryService) Delete(ctx context.Context, p domain.Principal, uid string) error {
	if _, err := s.graph.GetNode(ctx, domain.KindGrocery, uid); err != nil {
		return err
	}
	if err := s.auth.Authorize(ctx, p, domain.OpDeleteGrocery, uid); err != nil {
		return err
	}
	return s.graph.DeleteNode(ctx, uid)
}

// Reassign moves the grocery's RESPONSIBLE_FOR edge to the supplier with
// the given external id, or clears it when the id is empty. The target is
// resolved up front (exactly-one semantics) so nothing is committed for
// an unresolvable supplier.
func (s *GroceryService) Reassign(ctx context.Context, groceryUID, supplierExternalID string) error {
	var supplier *domain.GraphNode
	if supplierExternalID != "" {
		var err error
		supplier, err = resolveSupplierNode(ctx, s.graph, supplierExternalID)
		if err != nil {
			return err
		}
	}
	return s.replaceResponsible(ctx, groceryUID, supplier)
}

// replaceResponsible is the reassignment protocol: inside one store
// transaction, defensively disconnect every RESPONSIBLE_FOR edge into the
// grocery (self-healing any accumulated duplicates), connect the new edge
// when assigning, and re-verify the post-condition before commit. A
// failed verification rolls the whole sequence back and surfaces as
// InvariantError; the previous assignment stays intact.
func (s *GroceryService) replaceResponsible(ctx context.Context, groceryUID string, supplier *domain.GraphNode) error {
	wantUID := ""
	if supplier != nil {
		wantUID = supplier.UID
	}

	err := s.graph.InTx(ctx, func(tx domain.GraphTx) error {
		swept, err := tx.DisconnectAll(ctx, domain.EdgeResponsibleFor, groceryUID)
		if err != nil {
			return err
		}
		if swept > 1 {
			s.logger.Warn("swept duplicate responsible edges",
				"grocery_uid", groceryUID, "count", swept)
		}

		if supplier != nil {
			if err := tx.Connect(ctx, domain.EdgeResponsibleFor, supplier.UID, groceryUID); err != nil {
				return err
			}
		}

		live, err := tx.SourcesOf(ctx, domain.EdgeResponsibleFor, groceryUID)
		if err != nil {
			return err
		}
		if !singletonMatches(live, wantUID) {
			return &domain.InvariantError{GroceryUID: groceryUID, WantUID: wantUID, LiveSources: live}
		}
		return nil
	})

	var invariant *domain.InvariantError
	if errors.As(err, &invariant) {
		s.logger.Error("reassignment post-condition failed",
			"grocery_uid", invariant.GroceryUID,
			"want_uid", invariant.WantUID,
			"live_sources", invariant.LiveSources)
	}
	return err
}

// fillResponsible resolves the grocery's live RESPONSIBLE_FOR source to
// its external account id.
func (s *GroceryService) fillResponsible(ctx context.Context, g *domain.Grocery) error {
	sources, err := s.ownership.SourcesOf(ctx, domain.EdgeResponsibleFor, g.UID)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return nil
	}
	node, err := s.graph.GetNode(ctx, domain.KindUser, sources[0])
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	g.ResponsibleSupplierID = node.StringProp("user_id")
	return nil
}

func (s *GroceryService) get(ctx context.Context, uid string) (*domain.Grocery, error) {
	node, err := s.graph.GetNode(ctx, domain.KindGrocery, uid)
	if err != nil {
		return nil, err
	}
	g := domain.GroceryFromNode(node)
	if err := s.fillResponsible(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// resolveSupplierNode resolves a supplier external id to exactly one user
// node. Zero matches, or more than one (a data-integrity anomaly), refuse
// with SupplierNotFoundError rather than guessing among duplicates.
func resolveSupplierNode(ctx context.Context, graph domain.GraphStore, externalID string) (*domain.GraphNode, error) {
	nodes, err := graph.FilterNodes(ctx, domain.KindUser, "user_id", externalID)
	if err != nil {
		return nil, err
	}
	switch len(nodes) {
	case 0:
		return nil, &domain.SupplierNotFoundError{ExternalID: externalID}
	case 1:
		return &nodes[0], nil
	default:
		return nil, &domain.SupplierNotFoundError{ExternalID: externalID, Ambiguous: true}
	}
}

// singletonMatches reports whether the live edge set is exactly the wanted
// assignment: empty for unassigned, or the single wanted source.
func singletonMatches(live []string, wantUID string) bool {
	if wantUID == "" {
		return len(live) == 0
	}
	return len(live) == 1 && live[0] == wantUID
}
