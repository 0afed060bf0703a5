package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/account-ledger-service/internal/auth"
	"github.com/sheikh-saqib/account-ledger-service/internal/events"
	"github.com/sheikh-saqib/account-ledger-service/internal/ledger"
	"github.com/sheikh-saqib/account-ledger-service/internal/rules"
	"github.com/sheikh-saqib/account-ledger-service/internal/storage/memory"
)

// newTestServer wires the full stack against in-memory stores.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	l := ledger.NewLedger(memory.NewAccountStore(), events.NopPublisher{}, rules.DefaultWithdrawRules())
	a := auth.NewService(memory.NewUserStore(), "test-secret", time.Hour)
	h := NewHandler(l, a, zap.NewNop())

	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

// doJSON sends a JSON request, asserts the status code, and decodes the
// response body into out when out is non-nil.
func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any, wantStatus int, out any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantStatus, resp.StatusCode, "%s %s", method, path)

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

// registerAndLogin creates a user and returns a valid bearer token.
func registerAndLogin(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()
	creds := map[string]string{"email": email, "password": "correct-horse"}
	doJSON(t, srv, http.MethodPost, "/api/auth/register", "", creds, http.StatusCreated, nil)

	var loginResp struct {
		Token string `json:"token"`
	}
	doJSON(t, srv, http.MethodPost, "/api/auth/login", "", creds, http.StatusOK, &loginResp)
	require.NotEmpty(t, loginResp.Token)
	return loginResp.Token
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAccountEndpointsRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodGet, "/api/accounts", "", nil, http.StatusUnauthorized, nil)
	doJSON(t, srv, http.MethodPost, "/api/accounts/deposit", "garbage-token",
		map[string]string{"amount": "10.00"}, http.StatusUnauthorized, nil)
}

func TestRegisterValidationAndDuplicates(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": "ada@example.com", "password": "short"}, http.StatusBadRequest, nil)

	creds := map[string]string{"email": "ada@example.com", "password": "correct-horse"}
	doJSON(t, srv, http.MethodPost, "/api/auth/register", "", creds, http.StatusCreated, nil)
	doJSON(t, srv, http.MethodPost, "/api/auth/register", "", creds, http.StatusConflict, nil)

	doJSON(t, srv, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "ada@example.com", "password": "wrong"}, http.StatusUnauthorized, nil)
}

func TestAccountLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "ada@example.com")

	// no account yet
	doJSON(t, srv, http.MethodGet, "/api/accounts", token, nil, http.StatusNotFound, nil)
	doJSON(t, srv, http.MethodGet, "/api/accounts/balance", token, nil, http.StatusNotFound, nil)

	create := map[string]string{"first_name": "Ada", "last_name": "Lovelace"}
	var account struct {
		ID      string `json:"id"`
		Balance string `json:"balance"`
	}
	doJSON(t, srv, http.MethodPost, "/api/accounts", token, create, http.StatusCreated, &account)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "0", account.Balance)

	// one account per owner
	doJSON(t, srv, http.MethodPost, "/api/accounts", token, create, http.StatusConflict, nil)

	// missing names rejected
	doJSON(t, srv, http.MethodPost, "/api/accounts", registerAndLogin(t, srv, "bob@example.com"),
		map[string]string{"first_name": "Bob"}, http.StatusBadRequest, nil)
}

func TestDepositWithdrawFlow(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "ada@example.com")
	doJSON(t, srv, http.MethodPost, "/api/accounts", token,
		map[string]string{"first_name": "Ada", "last_name": "Lovelace"}, http.StatusCreated, nil)

	var result struct {
		Balance string `json:"balance"`
		Entry   struct {
			Kind   string `json:"kind"`
			Amount string `json:"amount"`
		} `json:"entry"`
	}

	doJSON(t, srv, http.MethodPost, "/api/accounts/deposit", token,
		map[string]string{"amount": "100.00"}, http.StatusOK, &result)
	assert.Equal(t, "100.00", result.Balance)
	assert.Equal(t, "deposit", result.Entry.Kind)

	doJSON(t, srv, http.MethodPost, "/api/accounts/withdraw", token,
		map[string]string{"amount": "30.00"}, http.StatusOK, &result)
	assert.Equal(t, "70.00", result.Balance)
	assert.Equal(t, "withdrawal", result.Entry.Kind)
	assert.Equal(t, "-30.00", result.Entry.Amount)

	// rule violations map to 422 and change nothing
	doJSON(t, srv, http.MethodPost, "/api/accounts/withdraw", token,
		map[string]string{"amount": "50001.00"}, http.StatusUnprocessableEntity, nil)

	// invalid amounts map to 400
	doJSON(t, srv, http.MethodPost, "/api/accounts/deposit", token,
		map[string]string{"amount": "-5.00"}, http.StatusBadRequest, nil)

	var balance struct {
		Balance string `json:"balance"`
	}
	doJSON(t, srv, http.MethodGet, "/api/accounts/balance", token, nil, http.StatusOK, &balance)
	assert.Equal(t, "70.00", balance.Balance)

	var entries []struct {
		Kind string `json:"kind"`
	}
	doJSON(t, srv, http.MethodGet, "/api/accounts/transactions", token, nil, http.StatusOK, &entries)
	require.Len(t, entries, 2)
	assert.Equal(t, "withdrawal", entries[0].Kind) // newest first
	assert.Equal(t, "deposit", entries[1].Kind)
}

func TestOwnersAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	adaToken := registerAndLogin(t, srv, "ada@example.com")
	bobToken := registerAndLogin(t, srv, "bob@example.com")

	doJSON(t, srv, http.MethodPost, "/api/accounts", adaToken,
		map[string]string{"first_name": "Ada", "last_name": "Lovelace"}, http.StatusCreated, nil)
	doJSON(t, srv, http.MethodPost, "/api/accounts", bobToken,
		map[string]string{"first_name": "Bob", "last_name": "Babbage"}, http.StatusCreated, nil)

	doJSON(t, srv, http.MethodPost, "/api/accounts/deposit", adaToken,
		map[string]string{"amount": "100.00"}, http.StatusOK, nil)

	var balance struct {
		Balance string `json:"balance"`
	}
	doJSON(t, srv, http.MethodGet, "/api/accounts/balance", bobToken, nil, http.StatusOK, &balance)
	assert.Equal(t, "0", balance.Balance)
}
