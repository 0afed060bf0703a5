package rules

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/account-ledger-service/internal/models"
)

// Rule is a single withdrawal precondition. Implementations must be stateless
// and must not mutate the account they are given.
type Rule interface {
	// Name identifies the rule in violation reports.
	Name() string
	// Validate returns a *ViolationError when the proposed withdrawal is not
	// allowed, nil otherwise. amount is always the positive withdrawal amount.
	Validate(account models.Account, amount decimal.Decimal) error
}

// ViolationError reports which rule rejected a withdrawal and why.
type ViolationError struct {
	Rule   string
	Reason string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("withdrawal rejected by %s rule: %s", e.Rule, e.Reason)
}

// Evaluate runs the rules in order and returns the first violation.
// The order of the slice is the order of evaluation, so callers get
// deterministic error messages when several rules would fail.
func Evaluate(account models.Account, amount decimal.Decimal, rules []Rule) error {
	for _, r := range rules {
		if err := r.Validate(account, amount); err != nil {
			return err
		}
	}
	return nil
}

// SufficientBalanceRule rejects withdrawals larger than the current balance.
type SufficientBalanceRule struct{}

func (SufficientBalanceRule) Name() string { return "sufficient_balance" }

func (SufficientBalanceRule) Validate(account models.Account, amount decimal.Decimal) error {
	if amount.GreaterThan(account.Balance) {
		return &ViolationError{
			Rule:   "sufficient_balance",
			Reason: fmt.Sprintf("amount %s exceeds balance %s", amount, account.Balance),
		}
	}
	return nil
}

// DefaultTransactionLimit is the per-transaction withdrawal ceiling.
var DefaultTransactionLimit = decimal.NewFromInt(50000)

// TransactionLimitRule rejects withdrawals above a fixed per-transaction
// ceiling. This is a cap on a single withdrawal, not a rolling daily total.
type TransactionLimitRule struct {
	Limit decimal.Decimal
}

func (TransactionLimitRule) Name() string { return "transaction_limit" }

func (r TransactionLimitRule) Validate(_ models.Account, amount decimal.Decimal) error {
	if amount.GreaterThan(r.Limit) {
		return &ViolationError{
			Rule:   "transaction_limit",
			Reason: fmt.Sprintf("amount %s exceeds the per-transaction limit of %s", amount, r.Limit),
		}
	}
	return nil
}

// DefaultWithdrawRules is the standard rule set, in evaluation order.
func DefaultWithdrawRules() []Rule {
	return []Rule{
		SufficientBalanceRule{},
		TransactionLimitRule{Limit: DefaultTransactionLimit},
	}
}
