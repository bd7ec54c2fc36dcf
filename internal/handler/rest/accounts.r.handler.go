package hrest

import (
	"encoding/json"
	"net/http"

	"account-service/internal/domain"
	"account-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type AccountRequestJSON struct {
	AccountNumber  string             `json:"account_number"`
	AccountType    domain.AccountType `json:"account_type"`
	InitialBalance decimal.Decimal    `json:"initial_balance"`
	Status         *bool              `json:"status"`
	ClientID       string             `json:"client_id"`
	ClientName     string             `json:"client_name"`
	ClientStatus   *bool              `json:"client_status"`
}

type AccountUpdateJSON struct {
	AccountType domain.AccountType `json:"account_type"`
	Status      *bool              `json:"status"`
}

func (h *AccountingRestHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var in AccountRequestJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if in.AccountNumber == "" || in.ClientID == "" || in.ClientName == "" {
		response.Error(w, http.StatusBadRequest, "account number, client id and client name are required")
		return
	}
	if !in.AccountType.IsValid() {
		response.Error(w, http.StatusBadRequest, "account type must be savings or checking")
		return
	}
	if in.Status == nil || in.ClientStatus == nil {
		response.Error(w, http.StatusBadRequest, "status and client status are required")
		return
	}
	if in.InitialBalance.IsNegative() {
		response.Error(w, http.StatusBadRequest, "initial balance must be non-negative")
		return
	}

	account := &domain.Account{
		AccountNumber: in.AccountNumber,
		AccountType:   in.AccountType,
		Balance:       in.InitialBalance,
		Status:        *in.Status,
		ClientID:      in.ClientID,
		ClientName:    in.ClientName,
		ClientStatus:  *in.ClientStatus,
	}

	created, err := h.accountUC.CreateAccount(r.Context(), account)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, created)
}

func (h *AccountingRestHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.GetAll(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, accounts)
}

func (h *AccountingRestHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")

	account, err := h.accountUC.GetByAccountNumber(r.Context(), accountNumber)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}

func (h *AccountingRestHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")

	var in AccountUpdateJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !in.AccountType.IsValid() || in.Status == nil {
		response.Error(w, http.StatusBadRequest, "account type and status are required")
		return
	}

	account, err := h.accountUC.UpdateAccount(r.Context(), accountNumber, in.AccountType, *in.Status)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}

func (h *AccountingRestHandler) PatchAccount(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")

	var patch domain.AccountPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.AccountType != nil && !patch.AccountType.IsValid() {
		response.Error(w, http.StatusBadRequest, "account type must be savings or checking")
		return
	}

	account, err := h.accountUC.PatchAccount(r.Context(), accountNumber, &patch)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}
