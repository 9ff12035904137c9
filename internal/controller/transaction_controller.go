package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	domainErrors "github.com/TradeTrust/api-storage/internal/domain/errors"
	"github.com/TradeTrust/api-storage/internal/infrastructure/observability"
	customMW "github.com/TradeTrust/api-storage/internal/middleware"
	"github.com/TradeTrust/api-storage/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TransactionController handles transaction-related HTTP requests.
type TransactionController struct {
	transactionService *service.TransactionService
	metrics            *observability.Metrics
}

// NewTransactionController creates a new TransactionController.
func NewTransactionController(
	transactionService *service.TransactionService,
	metrics *observability.Metrics,
) *TransactionController {
	return &TransactionController{
		transactionService: transactionService,
		metrics:            metrics,
	}
}

// Create handles POST /transactions/{customerId}. The body is a JSON array
// of purchase lines; the whole request is accepted or rejected as one unit.
func (h *TransactionController) Create(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")

	var lines []PurchaseLineRequest
	if err := json.NewDecoder(r.Body).Decode(&lines); err != nil {
		writeError(w, domainErrors.NewValidationError("body", "invalid JSON: "+err.Error()))
		return
	}
	for _, line := range lines {
		if err := validate.Struct(line); err != nil {
			writeError(w, domainErrors.NewValidationError("category", "required validation failed"))
			return
		}
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("transaction.customer_id", customerID),
		attribute.Int("transaction.lines", len(lines)),
	)

	user, _ := customMW.GetUser(r.Context())

	start := time.Now()
	records, err := h.transactionService.CreateTransaction(r.Context(), service.CreateTransactionRequest{
		CustomerID:      customerID,
		User:            user,
		PurchaseRecords: toPurchaseLines(lines),
		RequestID:       chimw.GetReqID(r.Context()),
	})
	h.metrics.TransactionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		h.metrics.TransactionsTotal.WithLabelValues("rejected").Inc()
		var quotaErr *domainErrors.QuotaError
		if errors.As(err, &quotaErr) {
			h.metrics.QuotaRejections.WithLabelValues(quotaErr.Category).Inc()
		}
		writeError(w, err)
		return
	}

	h.metrics.TransactionsTotal.WithLabelValues("accepted").Inc()
	for _, rec := range records {
		h.metrics.TransactionRecords.WithLabelValues(rec.Category).Inc()
	}

	writeJSON(w, http.StatusOK, PastTransactionsResponse{
		CustomerID:       customerID,
		PastTransactions: FromRecords(records),
	})
}

// Get handles GET /transactions/{customerId}. It returns the customer's
// records still inside their category's policy window.
func (h *TransactionController) Get(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("transaction.customer_id", customerID))

	records, err := h.transactionService.GetTransactionsByCustomer(r.Context(), customerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PastTransactionsResponse{
		CustomerID:       customerID,
		PastTransactions: FromRecords(records),
	})
}
