package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/core-ledger/internal/money"
)

func TestNew_RoundsToFourDecimalPlaces(t *testing.T) {
	m, err := money.New("10.123456", "USD")
	require.NoError(t, err)
	assert.Equal(t, "10.1235", m.String())
}

func TestNew_RejectsMalformedAmount(t *testing.T) {
	_, err := money.New("not-a-number", "USD")
	require.Error(t, err)
}

func TestAdd_PreservesScale(t *testing.T) {
	a, _ := money.New("10.0001", "USD")
	b, _ := money.New("0.0002", "USD")
	assert.Equal(t, "10.0003", a.Add(b).String())
}

func TestLessThan_ComparesAmountOnly(t *testing.T) {
	small, _ := money.New("1.00", "USD")
	big, _ := money.New("2.00", "EUR")
	assert.True(t, small.LessThan(big))
	assert.False(t, big.LessThan(small))
}

func TestIsZero_TrueForZeroValue(t *testing.T) {
	assert.True(t, money.Zero("USD").IsZero())
	nonZero, _ := money.New("0.0001", "USD")
	assert.False(t, nonZero.IsZero())
}
