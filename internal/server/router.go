package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router registers every route. Auth endpoints are public; account endpoints
// sit behind the bearer-token middleware, which is the only place request
// identity is resolved.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)

	api.HandleFunc("/accounts", h.requireAuth(h.createAccount)).Methods(http.MethodPost)
	api.HandleFunc("/accounts", h.requireAuth(h.getAccount)).Methods(http.MethodGet)
	api.HandleFunc("/accounts/balance", h.requireAuth(h.getBalance)).Methods(http.MethodGet)
	api.HandleFunc("/accounts/transactions", h.requireAuth(h.getTransactions)).Methods(http.MethodGet)
	api.HandleFunc("/accounts/deposit", h.requireAuth(h.deposit)).Methods(http.MethodPost)
	api.HandleFunc("/accounts/withdraw", h.requireAuth(h.withdraw)).Methods(http.MethodPost)

	return r
}
