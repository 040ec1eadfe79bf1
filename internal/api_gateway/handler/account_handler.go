package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/payments-engine/internal/api_gateway/service"
	"github.com/payments-engine/internal/domain/account"
)

// AccountHandler handles HTTP requests for account operations
type AccountHandler struct {
	accountService service.AccountService
	precision      int32
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler rendering amounts with precision decimal places
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService, precision int) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		precision:      int32(precision),
		logger:         logger,
	}
}

// List returns a page of accounts ordered by client id
func (h *AccountHandler) List(c *gin.Context) {
	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	accounts, total, err := h.accountService.ListAccounts(c.Request.Context(), pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		RespondInternalError(c)
		return
	}

	response := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		response = append(response, mapAccountToResponse(acc, h.precision))
	}
	RespondWithPaginatedData(c, http.StatusOK, response, pagination.Page, pagination.PerPage, total)
}

// GetByClientID retrieves a client's account, returning 404 if no record has touched it
func (h *AccountHandler) GetByClientID(c *gin.Context) {
	clientParam := c.Param("client")
	clientID, err := strconv.ParseUint(clientParam, 10, 16)
	if err != nil {
		h.logger.Error("Invalid client ID", "client", clientParam, "error", err)
		RespondBadRequest(c, "Invalid client ID")
		return
	}

	acc, err := h.accountService.GetAccount(c.Request.Context(), uint16(clientID))
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get account", "client", clientParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc, h.precision))
}
