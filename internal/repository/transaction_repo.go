// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"propshare-admin/internal/domain"
)

// TransactionRepository defines the interface for the append-only journal.
type TransactionRepository interface {
	// CreateTransaction appends a journal entry. If an entry with the same
	// reference already exists it returns util.ErrAlreadyProcessed, which
	// aborts the enclosing settlement: the real-world event was journaled
	// by an earlier attempt.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// ListByUser returns a page of a user's journal entries plus the total count.
	ListByUser(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error)
}
