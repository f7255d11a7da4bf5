package flow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amielsh/centsible/pkg/models"
)

func TestClassifyManualOverrideWins(t *testing.T) {
	tx := models.Transaction{Date: "2025-01-05", Description: "Paycheck Direct Deposit", Amount: 2000, FlowType: models.FlowExpense}
	assert.Equal(t, models.FlowExpense, Classify(tx, "a", nil))

	// The literal auto marker is not an override.
	tx.FlowType = models.FlowAuto
	assert.Equal(t, models.FlowIncome, Classify(tx, "a", nil))
}

func TestClassifyZeroAndNonFiniteAreUnknown(t *testing.T) {
	assert.Equal(t, models.FlowUnknown, Classify(models.Transaction{Amount: 0, Description: "fee reversal"}, "a", nil))
	assert.Equal(t, models.FlowUnknown, Classify(models.Transaction{Amount: math.NaN()}, "a", nil))
	assert.Equal(t, models.FlowUnknown, Classify(models.Transaction{Amount: math.Inf(1)}, "a", nil))
}

func TestClassifyTransferKeywords(t *testing.T) {
	for _, desc := range []string{
		"Online Transfer to savings",
		"ACH WEB PAYMENT",
		"XFER 2231",
		"Payment to credit card",
	} {
		tx := models.Transaction{Date: "2025-01-05", Description: desc, Amount: -100}
		assert.Equal(t, models.FlowTransfer, Classify(tx, "a", nil), "desc %q", desc)
	}
}

func TestClassifyCrossAccountPair(t *testing.T) {
	accounts := []models.Account{
		{ID: "checking", Transactions: []models.Transaction{
			{Date: "2025-01-10", Description: "Outgoing funds", Amount: -500},
		}},
		{ID: "savings", Transactions: []models.Transaction{
			{Date: "2025-01-10", Description: "Incoming funds", Amount: 500},
		}},
	}
	lookup := BuildTransferLookup(accounts)

	out := accounts[0].Transactions[0]
	in := accounts[1].Transactions[0]
	assert.Equal(t, models.FlowTransfer, Classify(out, "checking", lookup))
	assert.Equal(t, models.FlowTransfer, Classify(in, "savings", lookup))
}

func TestClassifySameAccountPairIsNotATransfer(t *testing.T) {
	// A refund that mirrors a purchase inside one account must not pair
	// with itself.
	accounts := []models.Account{
		{ID: "checking", Transactions: []models.Transaction{
			{Date: "2025-01-10", Description: "Gadget purchase", Amount: -60},
			{Date: "2025-01-10", Description: "Gadget purchase reversal", Amount: 60},
		}},
	}
	lookup := BuildTransferLookup(accounts)

	assert.Equal(t, models.FlowExpense, Classify(accounts[0].Transactions[0], "checking", lookup))
	assert.Equal(t, models.FlowIncome, Classify(accounts[0].Transactions[1], "checking", lookup))
}

func TestClassifyDifferentMagnitudesDoNotPair(t *testing.T) {
	accounts := []models.Account{
		{ID: "checking", Transactions: []models.Transaction{
			{Date: "2025-01-10", Description: "Outgoing funds", Amount: -500},
		}},
		{ID: "savings", Transactions: []models.Transaction{
			{Date: "2025-01-10", Description: "Incoming funds", Amount: 499},
		}},
	}
	lookup := BuildTransferLookup(accounts)
	assert.Equal(t, models.FlowExpense, Classify(accounts[0].Transactions[0], "checking", lookup))
}

func TestClassifySignFallback(t *testing.T) {
	lookup := TransferLookup{}
	assert.Equal(t, models.FlowIncome, Classify(models.Transaction{Date: "2025-01-05", Description: "Garage sale", Amount: 40}, "a", lookup))
	assert.Equal(t, models.FlowExpense, Classify(models.Transaction{Date: "2025-01-05", Description: "Corner store", Amount: -3}, "a", lookup))
}
