// Package service implements the business logic of the grocery ownership
// graph: authorization, the responsible-supplier reassignment protocol,
// item lifecycle, and income aggregation.
package service

import (
	"context"

	"grocery-graph/internal/domain"
)

// AuthorizationService is the single allow/deny decision point. Every
// handler and service routes its permission question through Authorize so
// the policy has one source of truth and one place to test exhaustively.
//
// The policy, in order:
//  1. ADMIN principals are allowed every operation.
//  2. Reads of groceries and items are open to any authenticated
//     principal; only mutation is gated.
//  3. A SUPPLIER may mutate a grocery's items or record its incomes iff
//     it holds the live RESPONSIBLE_FOR edge into that grocery.
//  4. Income reads are the exception to the open-read rule: a non-admin
//     may read incomes only when explicitly scoped to "mine" and
//     responsible for the grocery.
type AuthorizationService struct {
	graph     domain.GraphStore
	ownership domain.OwnershipIndex
}

// NewAuthorizationService creates an AuthorizationService over the graph
// store and ownership index.
func NewAuthorizationService(graph domain.GraphStore, ownership domain.OwnershipIndex) *AuthorizationService {
	return &AuthorizationService{graph: graph, ownership: ownership}
}

// Authorize decides whether the principal may perform op against the
// grocery subtree rooted at groceryUID. It returns nil to allow, an
// AccessDeniedError to deny. groceryUID is empty for operations without a
// grocery scope (grocery creation, account management).
//
// Callers must resolve existence before authorizing mutate/detail paths:
// a denial never reveals whether the resource exists.
func (s *AuthorizationService) Authorize(ctx context.Context, p domain.Principal, op domain.Operation, groceryUID string) error {
	// Open reads, regardless of responsibility.
	switch op {
	case domain.OpReadGrocery, domain.OpReadItems:
		return nil
	}

	if p.IsAdmin() {
		return nil
	}

	switch op {
	case domain.OpMutateItems, domain.OpRecordIncome:
		responsible, err := s.IsResponsible(ctx, p.ID, groceryUID)
		if err != nil {
			return err
		}
		if responsible {
			return nil
		}
		return &domain.AccessDeniedError{
			Message: "not responsible for this grocery",
			Reason:  domain.ReasonNotResponsible,
		}

	case domain.OpReadIncomesMine:
		responsible, err := s.IsResponsible(ctx, p.ID, groceryUID)
		if err != nil {
			return err
		}
		if responsible {
			return nil
		}
		return &domain.AccessDeniedError{
			Message: "only the responsible supplier may read incomes scoped to mine",
			Reason:  domain.ReasonIncomeReadForbidden,
		}

	case domain.OpReadIncomes:
		return &domain.AccessDeniedError{
			Message: "only ADMIN may read incomes of other groceries",
			Reason:  domain.ReasonIncomeReadForbidden,
		}

	default:
		// Grocery and account management stay admin-only.
		return &domain.AccessDeniedError{
			Message: "operation requires the ADMIN role",
			Reason:  domain.ReasonAdminOnly,
		}
	}
}

// IsResponsible reports whether the account with the given external id
// holds the live RESPONSIBLE_FOR edge into the grocery. A missing or
// duplicated graph counterpart resolves to false: the relational account
// and its graph node are only eventually consistent, and an unresolvable
// principal must never be granted supplier rights.
func (s *AuthorizationService) IsResponsible(ctx context.Context, externalID, groceryUID string) (bool, error) {
	nodes, err := s.graph.FilterNodes(ctx, domain.KindUser, "user_id", externalID)
	if err != nil {
		return false, err
	}
	if len(nodes) != 1 {
		return false, nil
	}
	return s.ownership.IsConnected(ctx, domain.EdgeResponsibleFor, nodes[0].UID, groceryUID)
}
