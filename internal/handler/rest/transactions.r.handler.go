package hrest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"account-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type TransactionRequestJSON struct {
	AccountNumber   string          `json:"account_number"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
}

type TransactionUpdateJSON struct {
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
}

func (h *AccountingRestHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in TransactionRequestJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.AccountNumber == "" || in.TransactionType == "" {
		response.Error(w, http.StatusBadRequest, "account number and transaction type are required")
		return
	}

	movement, err := h.txUC.PostTransaction(r.Context(), in.AccountNumber, in.TransactionType, in.Amount)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, movement)
}

func (h *AccountingRestHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.txUC.GetAll(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, transactions)
}

func (h *AccountingRestHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	movement, err := h.txUC.GetByID(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, movement)
}

func (h *AccountingRestHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	var in TransactionUpdateJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.TransactionType == "" {
		response.Error(w, http.StatusBadRequest, "transaction type is required")
		return
	}

	movement, err := h.txUC.AmendTransaction(r.Context(), id, in.TransactionType, in.Amount)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, movement)
}
