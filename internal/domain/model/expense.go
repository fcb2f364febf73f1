package model

// Expense is a recurring expense with a monthly schedule.
type Expense struct {
	ExpenseID   int64  `json:"expenseId"`
	ExpenseName string `json:"expenseName"`
	Year        int    `json:"year"`
	TotalAmount int64  `json:"totalAmount"`
	MonthlyAmounts
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	CreatedBy string `json:"createdBy"`
	UpdatedBy string `json:"updatedBy"`
}

// ExpenseRequest is the body for creating or updating an expense.
type ExpenseRequest struct {
	ExpenseName string `json:"expenseName"`
	Year        int    `json:"year"`
	MonthlyAmounts
}
