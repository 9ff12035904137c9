package postgres

import (
	"context"
	"fmt"

	"github.com/TradeTrust/api-storage/internal/domain/transaction"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository is the append-only record store. Records are never
// updated or deleted; reads return them in insertion order.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Append inserts all records atomically. Either every record is committed
// or none are; a partially written batch is never visible to readers.
func (r *TransactionRepository) Append(ctx context.Context, customerID string, records []transaction.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(`
			INSERT INTO transactions (customer_id, category, quantity, transaction_time, request_id)
			VALUES ($1, $2, $3, $4, $5)`,
			customerID, rec.Category, rec.Quantity, rec.TransactionTime, rec.RequestID,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range records {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert transaction record: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// QueryByCustomer returns all records for a customer in insertion order.
// An empty category matches every category.
func (r *TransactionRepository) QueryByCustomer(ctx context.Context, customerID, category string) ([]transaction.Record, error) {
	query := `
		SELECT customer_id, category, quantity, transaction_time, request_id
		FROM transactions
		WHERE customer_id = $1`
	args := []any{customerID}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY seq`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	records := []transaction.Record{}
	for rows.Next() {
		var rec transaction.Record
		if err := rows.Scan(&rec.CustomerID, &rec.Category, &rec.Quantity, &rec.TransactionTime, &rec.RequestID); err != nil {
			return nil, fmt.Errorf("failed to scan transaction record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction rows: %w", err)
	}

	return records, nil
}
