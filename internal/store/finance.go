package store

import (
	"slices"
	"strings"

	"github.com/brasaerp/brasaerp/internal/shared"
)

// AddTransaction records a financial ledger entry.
func (s *Store) AddTransaction(actor string, tx Transaction) (Transaction, error) {
	if tx.Type != TransactionIncome && tx.Type != TransactionExpense {
		return Transaction{}, shared.Invalid("type", "unknown transaction type")
	}
	if strings.TrimSpace(tx.Category) == "" {
		return Transaction{}, shared.Invalid("category", "category required")
	}
	if tx.Amount.IsNegative() {
		return Transaction{}, shared.Invalid("amount", "amount cannot be negative")
	}
	if tx.Status == "" {
		tx.Status = TransactionPending
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.newID()
	if tx.Date.IsZero() {
		tx.Date = s.now().UTC()
	}
	if tx.DueDate.IsZero() {
		tx.DueDate = tx.Date
	}
	s.st.Transactions = append(s.st.Transactions, tx)
	s.commitLocked(actor, AuditCreate, "transaction", tx.ID, tx.Category)
	return tx, nil
}

// UpdateTransaction replaces the stored entry with the same ID.
func (s *Store) UpdateTransaction(actor string, tx Transaction) error {
	if tx.Amount.IsNegative() {
		return shared.Invalid("amount", "amount cannot be negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Transactions, func(x Transaction) bool { return x.ID == tx.ID })
	if idx < 0 {
		return shared.ErrNotFound
	}
	s.st.Transactions[idx] = tx
	s.commitLocked(actor, AuditUpdate, "transaction", tx.ID, tx.Category)
	return nil
}

// SettleTransaction marks a pending or overdue entry as paid.
func (s *Store) SettleTransaction(actor, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Transactions, func(x Transaction) bool { return x.ID == id })
	if idx < 0 {
		return shared.ErrNotFound
	}
	s.st.Transactions[idx].Status = TransactionPaid
	s.commitLocked(actor, AuditUpdate, "transaction", id, "settled")
	return nil
}

// RemoveTransaction deletes the entry.
func (s *Store) RemoveTransaction(actor, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Transactions, func(x Transaction) bool { return x.ID == id })
	if idx < 0 {
		return shared.ErrNotFound
	}
	category := s.st.Transactions[idx].Category
	s.st.Transactions = slices.Delete(s.st.Transactions, idx, idx+1)
	s.commitLocked(actor, AuditDelete, "transaction", id, category)
	return nil
}

// Transactions returns a copy of the financial ledger.
func (s *Store) Transactions() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.Transactions)
}
