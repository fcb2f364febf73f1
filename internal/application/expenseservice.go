package application

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/port/driven"
)

// ExpenseService manages recurring expenses.
type ExpenseService struct {
	backend driven.Backend
}

func NewExpenseService(backend driven.Backend) *ExpenseService {
	return &ExpenseService{backend: backend}
}

func (s *ExpenseService) List(ctx context.Context, year int) ([]model.Expense, error) {
	if year <= 0 {
		return nil, ErrInvalidYear
	}

	var expenses []model.Expense
	err := call(ctx, s.backend, "list expenses", driven.BackendRequest{
		Method:          http.MethodPost,
		Path:            "/expense/list",
		Query:           yearQuery(year),
		Body:            emptyBody,
		FallbackMessage: "failed to load expenses",
	}, &expenses)
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	return expenses, nil
}

func (s *ExpenseService) Create(ctx context.Context, req model.ExpenseRequest) (*model.Expense, error) {
	if req.Year <= 0 {
		return nil, ErrInvalidYear
	}

	var expense model.Expense
	err := call(ctx, s.backend, "create expense", driven.BackendRequest{
		Method:          http.MethodPost,
		Path:            "/expense",
		Body:            req,
		FallbackMessage: "failed to create expense",
	}, &expense)
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *ExpenseService) Update(ctx context.Context, id int64, req model.ExpenseRequest) (*model.Expense, error) {
	if req.Year <= 0 {
		return nil, ErrInvalidYear
	}

	var expense model.Expense
	err := call(ctx, s.backend, "update expense", driven.BackendRequest{
		Method:          http.MethodPut,
		Path:            expensePath(id),
		Body:            req,
		FallbackMessage: "failed to update expense",
	}, &expense)
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	return call(ctx, s.backend, "delete expense", driven.BackendRequest{
		Method:          http.MethodDelete,
		Path:            expensePath(id),
		FallbackMessage: "failed to delete expense",
	}, nil)
}

// DeleteMany removes several expenses in one call.
func (s *ExpenseService) DeleteMany(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return ErrNoIDs
	}

	return call(ctx, s.backend, "delete expenses", driven.BackendRequest{
		Method:          http.MethodPost,
		Path:            "/expense/delete",
		Body:            map[string][]int64{"expenseIds": ids},
		FallbackMessage: "failed to delete expenses",
	}, nil)
}

func expensePath(id int64) string {
	return "/expense/" + strconv.FormatInt(id, 10)
}
