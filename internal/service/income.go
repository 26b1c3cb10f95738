package service

import (
	"context"

	"grocery-graph/internal/domain"
)

// IncomeService appends immutable daily income records and answers
// date-ranged aggregation queries over a grocery's RECORDED edges.
type IncomeService struct {
	graph domain.GraphStore
	auth  *AuthorizationService
}

// NewIncomeService creates an IncomeService.
func NewIncomeService(graph domain.GraphStore, auth *AuthorizationService) *IncomeService {
	return &IncomeService{graph: graph, auth: auth}
}

// Record appends a DailyIncome node under the grocery. Incomes are
// immutable once created; no update operation exists.
func (s *IncomeService) Record(ctx context.Context, p domain.Principal, groceryUID string, req domain.RecordIncomeRequest) (*domain.DailyIncome, error) {
	if _, err := s.graph.GetNode(ctx, domain.KindGrocery, groceryUID); err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, p, domain.OpRecordIncome, groceryUID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	node, err := s.graph.CreateNode(ctx, domain.KindIncome, (&domain.DailyIncome{
		Amount: *req.Amount,
		Date:   req.Date,
	}).Props())
	if err != nil {
		return nil, err
	}
	if err := s.graph.Connect(ctx, domain.EdgeRecorded, groceryUID, node.UID); err != nil {
		return nil, err
	}

	return domain.IncomeFromNode(node), nil
}

// List returns the grocery's incomes inside the inclusive date range,
// plus their count and total. Dates are fixed-width YYYY-MM-DD, so the
// range filter is a lexicographic comparison.
func (s *IncomeService) List(ctx context.Context, p domain.Principal, groceryUID string, q domain.IncomeQuery) (*domain.IncomeSummary, error) {
	if _, err := s.graph.GetNode(ctx, domain.KindGrocery, groceryUID); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	op := domain.OpReadIncomes
	if q.Mine {
		op = domain.OpReadIncomesMine
	}
	if err := s.auth.Authorize(ctx, p, op, groceryUID); err != nil {
		return nil, err
	}

	nodes, err := s.graph.NodesVia(ctx, domain.EdgeRecorded, groceryUID)
	if err != nil {
		return nil, err
	}

	summary := &domain.IncomeSummary{GroceryUID: groceryUID, Incomes: []domain.DailyIncome{}}
	for i := range nodes {
		inc := domain.IncomeFromNode(&nodes[i])
		if q.From != "" && inc.Date < q.From {
			continue
		}
		if q.To != "" && inc.Date > q.To {
			continue
		}
		summary.Incomes = append(summary.Incomes, *inc)
		summary.Count++
		summary.Total += inc.Amount
	}
	return summary, nil
}
