package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/account-ledger-service/internal/auth"
	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/ledger"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
	"github.com/sheikh-saqib/account-ledger-service/internal/rules"
)

// Handler exposes the ledger and auth services over HTTP.
type Handler struct {
	ledger *ledger.Ledger
	auth   *auth.Service
	log    *zap.Logger
}

// NewHandler builds the HTTP handler set.
func NewHandler(l *ledger.Ledger, a *auth.Service, log *zap.Logger) *Handler {
	return &Handler{ledger: l, auth: a, log: log.Named("http")}
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, interfaces.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email already registered")
		default:
			h.internalError(w, "register", err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.internalError(w, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type createAccountRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		writeError(w, http.StatusBadRequest, "first_name and last_name are required")
		return
	}

	account, err := h.ledger.CreateAccount(r.Context(), ownerID(r), req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, ledger.ErrDuplicateAccount) {
			writeError(w, http.StatusConflict, "owner already has an account")
			return
		}
		h.internalError(w, "create account", err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.ledger.GetAccount(r.Context(), ownerID(r))
	if err != nil {
		h.writeLedgerError(w, "get account", err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *Handler) getBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledger.GetBalance(r.Context(), ownerID(r))
	if err != nil {
		h.writeLedgerError(w, "get balance", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"balance": balance})
}

func (h *Handler) getTransactions(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.GetEntries(r.Context(), ownerID(r))
	if err != nil {
		h.writeLedgerError(w, "get transactions", err)
		return
	}
	if entries == nil {
		entries = []models.TransactionEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.ledger.Deposit)
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.ledger.Withdraw)
}

// mutate handles the shared request/response shape of deposit and withdraw.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, owner string, amount decimal.Decimal) (models.Account, models.TransactionEntry, error)) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, entry, err := op(r.Context(), ownerID(r), req.Amount)
	if err != nil {
		h.writeLedgerError(w, "apply transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entry":   entry,
		"balance": account.Balance,
	})
}

// writeLedgerError maps ledger outcomes to HTTP statuses.
func (h *Handler) writeLedgerError(w http.ResponseWriter, op string, err error) {
	var violation *rules.ViolationError
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case errors.As(err, &violation):
		writeError(w, http.StatusUnprocessableEntity, violation.Error())
	case errors.Is(err, ledger.ErrRetriesExhausted):
		writeError(w, http.StatusServiceUnavailable, "operation conflicted with concurrent writes, please retry")
	default:
		h.internalError(w, op, err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	h.log.Error("request failed", zap.String("op", op), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
