package transaction

import "context"

// Record is a single stored purchase transaction. Records are immutable once
// written; corrections are modeled as new records with negative quantities.
type Record struct {
	CustomerID      string
	Category        string
	Quantity        int64
	TransactionTime int64 // epoch milliseconds at write time
	RequestID       string
}

// PurchaseLine is one category/quantity pair of an incoming purchase request.
type PurchaseLine struct {
	Category string
	Quantity int64
}

// Repository defines the interface for transaction persistence.
// Records are append-only and partitioned by customer; insertion order
// matches chronological order in practice.
type Repository interface {
	// Append stores all records in one atomic write. It returns only after
	// the write is durable.
	Append(ctx context.Context, customerID string, records []Record) error

	// QueryByCustomer returns all records for a customer in insertion order.
	// An empty category matches every category.
	QueryByCustomer(ctx context.Context, customerID string, category string) ([]Record, error)
}

// ActiveWithin returns the records still counted toward quota at the given
// time: those with now - transactionTime < window. A record exactly at the
// window boundary is excluded.
func ActiveWithin(records []Record, now, window int64) []Record {
	active := make([]Record, 0, len(records))
	for _, r := range records {
		if now-r.TransactionTime < window {
			active = append(active, r)
		}
	}
	return active
}

// SumQuantities returns the total quantity across the given records.
func SumQuantities(records []Record) int64 {
	var sum int64
	for _, r := range records {
		sum += r.Quantity
	}
	return sum
}
