package evaluate_balance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type fakeLedger struct {
	balance float64
	err     error
	calls   int
}

func (f *fakeLedger) GetBalance(_ context.Context, _ int64) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.balance, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func float64Ptr(v float64) *float64 {
	return &v
}

func TestExecute_SufficientFromLedger(t *testing.T) {
	ledger := &fakeLedger{balance: 200}
	uc := New(ledger, nopLogger{})

	resp, err := uc.Execute(context.Background(), Request{
		UserID:   100,
		Required: 120,
		Kind:     domain.BalanceWallet,
	})

	require.NoError(t, err)
	assert.Equal(t, 120.0, resp.Required)
	assert.Equal(t, 200.0, resp.Available)
	assert.Equal(t, domain.BalanceWallet, resp.Kind)
	assert.Equal(t, 1, ledger.calls)
}

func TestExecute_ShortageFromLedger(t *testing.T) {
	ledger := &fakeLedger{balance: 80}
	uc := New(ledger, nopLogger{})

	_, err := uc.Execute(context.Background(), Request{
		UserID:   100,
		Required: 120,
		Kind:     domain.BalanceWallet,
	})

	var shortage *domain.BalanceShortage
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, 40.0, shortage.Shortage)
	assert.NotEmpty(t, shortage.Options)
}

func TestExecute_ExplicitAvailableSkipsLedger(t *testing.T) {
	ledger := &fakeLedger{balance: 0}
	uc := New(ledger, nopLogger{})

	resp, err := uc.Execute(context.Background(), Request{
		UserID:    100,
		Required:  50,
		Available: float64Ptr(75),
		Kind:      domain.BalanceDeposit,
	})

	require.NoError(t, err)
	assert.Equal(t, 75.0, resp.Available)
	assert.Equal(t, 0, ledger.calls)
}

func TestExecute_LedgerFailure(t *testing.T) {
	ledger := &fakeLedger{err: errors.New("connection refused")}
	uc := New(ledger, nopLogger{})

	_, err := uc.Execute(context.Background(), Request{
		UserID:   100,
		Required: 50,
		Kind:     domain.BalanceWallet,
	})

	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_Validation(t *testing.T) {
	uc := New(&fakeLedger{}, nopLogger{})

	cases := []Request{
		{UserID: 0, Required: 10, Kind: domain.BalanceWallet},
		{UserID: 1, Required: -1, Kind: domain.BalanceWallet},
		{UserID: 1, Required: 10, Available: float64Ptr(-5), Kind: domain.BalanceWallet},
		{UserID: 1, Required: 10, Kind: domain.BalanceKind("bonus")},
	}

	for _, req := range cases {
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}
