package rules

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/account-ledger-service/internal/models"
)

func account(balance string) models.Account {
	return models.Account{ID: "acc-1", Balance: decimal.RequireFromString(balance)}
}

func TestSufficientBalanceRule(t *testing.T) {
	rule := SufficientBalanceRule{}

	assert.NoError(t, rule.Validate(account("100.00"), decimal.RequireFromString("100.00")))
	assert.NoError(t, rule.Validate(account("100.00"), decimal.RequireFromString("30.00")))

	err := rule.Validate(account("100.00"), decimal.RequireFromString("100.01"))
	var violation *ViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "sufficient_balance", violation.Rule)
}

func TestTransactionLimitRule(t *testing.T) {
	rule := TransactionLimitRule{Limit: decimal.NewFromInt(50000)}

	// the limit itself is allowed, one cent over is not
	assert.NoError(t, rule.Validate(account("100000.00"), decimal.NewFromInt(50000)))

	err := rule.Validate(account("100000.00"), decimal.RequireFromString("50000.01"))
	var violation *ViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "transaction_limit", violation.Rule)
}

func TestEvaluateShortCircuitsOnFirstFailure(t *testing.T) {
	// balance 10, amount 60000: both rules would fail. The first registered
	// rule must win, deterministically.
	acc := account("10.00")
	amount := decimal.NewFromInt(60000)

	err := Evaluate(acc, amount, []Rule{SufficientBalanceRule{}, TransactionLimitRule{Limit: decimal.NewFromInt(50000)}})
	var violation *ViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "sufficient_balance", violation.Rule)

	err = Evaluate(acc, amount, []Rule{TransactionLimitRule{Limit: decimal.NewFromInt(50000)}, SufficientBalanceRule{}})
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "transaction_limit", violation.Rule)
}

func TestEvaluateAllPass(t *testing.T) {
	err := Evaluate(account("100.00"), decimal.NewFromInt(50), DefaultWithdrawRules())
	assert.NoError(t, err)
}

func TestEvaluateEmptyRuleSet(t *testing.T) {
	assert.NoError(t, Evaluate(account("0.00"), decimal.NewFromInt(1), nil))
}
