package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/payments-engine/internal/api_gateway/middleware"
	"github.com/payments-engine/internal/api_gateway/service"
	"github.com/payments-engine/internal/domain/shared"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/payments-engine/internal/engine"
)

// TransactionHandler handles HTTP requests for transaction operations
type TransactionHandler struct {
	transactionService service.TransactionService
	precision          int32
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService, precision int) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		precision:          int32(precision),
		logger:             logger,
	}
}

// Create applies a record inline. The client's account is returned on
// acceptance; a rejection answers 422 with the reason code.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rec, err := req.toRecord()
	if err != nil {
		h.logger.Error("Invalid transaction type", "type", req.Type)
		middleware.SetRejectionReason(c, string(shared.FailureReasonMalformedRecord))
		RespondWithError(c, http.StatusBadRequest, string(shared.FailureReasonMalformedRecord), err.Error())
		return
	}

	acc, err := h.transactionService.SubmitRecord(c.Request.Context(), rec)
	if err != nil {
		var rejErr *engine.RejectionError
		if errors.As(err, &rejErr) {
			h.logger.Info("Record rejected",
				"correlation_id", middleware.GetCorrelationID(c),
				"type", rec.Type.String(),
				"client", rec.ClientID,
				"tx", rec.TxID,
				"error", rejErr.Err)
			reason := string(shared.ReasonFor(rejErr.Err))
			middleware.SetRejectionReason(c, reason)
			RespondUnprocessable(c, reason, rejErr.Error())
			return
		}
		h.logger.Error("Failed to submit record", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc, h.precision))
}

// GetByID retrieves a recorded deposit or withdrawal, returns 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	txParam := c.Param("tx")
	txID, err := strconv.ParseUint(txParam, 10, 32)
	if err != nil {
		h.logger.Error("Invalid transaction ID", "tx", txParam, "error", err)
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	recorded, err := h.transactionService.GetTransaction(c.Request.Context(), uint32(txID))
	if err != nil {
		if errors.Is(err, transaction.ErrRecordNotFound{}) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to get transaction", "tx", txParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapRecordedToResponse(uint32(txID), recorded, h.precision))
}
