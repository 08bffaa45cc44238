package model

// Batch is a staged set of remote writes committed atomically: either every
// operation lands or none do. Used by reconciliation so a half-merged guest
// dataset can never exist remotely.
type Batch struct {
	InsertTransactions []Transaction
	// PutBudget, when set, creates or replaces the owner's budget
	// aggregate with the given values. An empty ID means create.
	PutBudget *BudgetDoc
}

// Empty reports whether the batch stages no work.
func (b Batch) Empty() bool {
	return len(b.InsertTransactions) == 0 && b.PutBudget == nil
}
