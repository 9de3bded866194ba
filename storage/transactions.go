package storage

import (
	"fmt"

	"tinigom/models"
)

// TransactionFilter narrows ListTransactions. Zero values mean "all".
type TransactionFilter struct {
	Type  string
	User  string
	Month int // calendar month 1-12
	Limit int
}

// ListTransactions returns transactions newest first, optionally filtered.
func (db *DB) ListTransactions(f TransactionFilter) ([]models.Transaction, error) {
	q := db.conn.Model(&models.Transaction{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.User != "" {
		q = q.Where(`"user" = ?`, f.User)
	}
	if f.Month >= 1 && f.Month <= 12 {
		// Postgres-specific month extraction, same as the reporting queries.
		q = q.Where("EXTRACT(MONTH FROM date) = ?", f.Month)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	txs := []models.Transaction{}
	if err := q.Order("created_at desc").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return txs, nil
}

// CreateTransaction inserts t and fills its generated fields.
func (db *DB) CreateTransaction(t *models.Transaction) error {
	if err := db.conn.Create(t).Error; err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes the row with the given id.
func (db *DB) DeleteTransaction(id uint) error {
	if err := db.conn.Delete(&models.Transaction{}, id).Error; err != nil {
		return fmt.Errorf("deleting transaction %d: %w", id, err)
	}
	return nil
}

// CountTransactions returns the total row count. Used by the connection
// diagnostic endpoint.
func (db *DB) CountTransactions() (int64, error) {
	var n int64
	if err := db.conn.Model(&models.Transaction{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}
	return n, nil
}
