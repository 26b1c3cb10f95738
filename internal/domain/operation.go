package domain

// Operation classifies what a request wants to do with a grocery subtree.
// The authorization engine is the single decision point for all of them.
type Operation string

const (
	OpReadGrocery   Operation = "grocery.read"
	OpCreateGrocery Operation = "grocery.create"
	OpUpdateGrocery Operation = "grocery.update"
	OpDeleteGrocery Operation = "grocery.delete"

	OpReadItems   Operation = "items.read"
	OpMutateItems Operation = "items.mutate"

	OpRecordIncome Operation = "incomes.record"
	// OpReadIncomes is an income read without the mine scope: admin only.
	OpReadIncomes Operation = "incomes.read"
	// OpReadIncomesMine is an income read explicitly scoped to the
	// caller's own groceries: allowed for the responsible supplier.
	OpReadIncomesMine Operation = "incomes.read_mine"

	OpManageUsers Operation = "users.manage"
)
