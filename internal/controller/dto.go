package controller

import (
	"github.com/TradeTrust/api-storage/internal/domain/policy"
	"github.com/TradeTrust/api-storage/internal/domain/transaction"
)

// --- Request DTOs ---
// These DTOs handle HTTP/JSON concerns (validation tags, wire field names).
// Controllers convert these to service layer types before calling business logic.

// PurchaseLineRequest is one purchase line in a transaction request body.
type PurchaseLineRequest struct {
	Category string `json:"category" validate:"required"`
	Quantity int64  `json:"quantity"`
}

// CreateSessionRequest holds the input for issuing a session token.
type CreateSessionRequest struct {
	AccessKey string `json:"accessKey" validate:"required"`
	User      string `json:"user" validate:"required"`
}

// --- Response DTOs ---

// TransactionRecordResponse represents a stored transaction record in API
// responses.
type TransactionRecordResponse struct {
	Category        string `json:"category"`
	Quantity        int64  `json:"quantity"`
	TransactionTime int64  `json:"transactionTime"`
	RequestID       string `json:"requestId,omitempty"`
}

// PastTransactionsResponse is the body of GET /transactions/{customerId}.
type PastTransactionsResponse struct {
	CustomerID       string                      `json:"customerId"`
	PastTransactions []TransactionRecordResponse `json:"pastTransactions"`
}

// SessionResponse carries a freshly issued session token.
type SessionResponse struct {
	Token string `json:"token"`
}

// PolicyResponse represents one category's quota policy.
type PolicyResponse struct {
	Category          string `json:"category"`
	Quota             int64  `json:"quota"`
	MaxPolicyDuration int64  `json:"maxPolicyDuration"`
}

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	Version  string           `json:"version"`
	Features map[string]bool  `json:"features"`
	Policies []PolicyResponse `json:"policies"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Conversion helpers ---

// FromRecord converts a domain record to API response.
func FromRecord(r transaction.Record) TransactionRecordResponse {
	return TransactionRecordResponse{
		Category:        r.Category,
		Quantity:        r.Quantity,
		TransactionTime: r.TransactionTime,
		RequestID:       r.RequestID,
	}
}

// FromRecords converts a record slice, never returning nil so empty results
// serialize as [] rather than null.
func FromRecords(records []transaction.Record) []TransactionRecordResponse {
	resp := make([]TransactionRecordResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, FromRecord(r))
	}
	return resp
}

// FromPolicy converts a domain policy to API response.
func FromPolicy(p policy.Policy) PolicyResponse {
	return PolicyResponse{
		Category:          p.Category,
		Quota:             p.Quota,
		MaxPolicyDuration: p.MaxDuration,
	}
}

func toPurchaseLines(reqs []PurchaseLineRequest) []transaction.PurchaseLine {
	lines := make([]transaction.PurchaseLine, 0, len(reqs))
	for _, r := range reqs {
		lines = append(lines, transaction.PurchaseLine{
			Category: r.Category,
			Quantity: r.Quantity,
		})
	}
	return lines
}
