package transfer

import (
	"math/big"
	"testing"

	"github.com/gabapcia/txflow/internal/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Validate(t *testing.T) {
	valid := Request{Amount: "10", Token: "USDC", Recipient: "0xabc", Network: "base"}

	t.Run("should accept a complete request", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("should reject missing recipient or non-positive amounts", func(t *testing.T) {
		testCases := map[string]Request{
			"empty recipient": {Amount: "10", Token: "USDC", Network: "base"},
			"zero amount":     {Amount: "0", Token: "USDC", Recipient: "0xabc", Network: "base"},
			"negative amount": {Amount: "-1", Token: "USDC", Recipient: "0xabc", Network: "base"},
			"empty amount":    {Token: "USDC", Recipient: "0xabc", Network: "base"},
			"unknown kind":    {Amount: "1", Token: "USDC", Recipient: "0xabc", Network: "base", Kind: "refund"},
		}

		for name, req := range testCases {
			assert.ErrorIs(t, req.Validate(), validator.ErrValidation, name)
		}
	})
}

func TestRequest_TxKind(t *testing.T) {
	assert.Equal(t, KindTransfer, Request{}.TxKind())
	assert.Equal(t, KindWithdrawal, Request{Kind: KindWithdrawal}.TxKind())
}

func TestToBaseUnits(t *testing.T) {
	testCases := []struct {
		amount   string
		decimals int32
		expected string
	}{
		{"0.01", 9, "10000000"},
		{"10", 6, "10000000"},
		{"2.5", 6, "2500000"},
		{"0.5", 18, "500000000000000000"},
		{"1", 0, "1"},
		{"0.000001", 6, "1"},
	}

	for _, tc := range testCases {
		v, err := ToBaseUnits(tc.amount, tc.decimals)
		require.NoError(t, err, tc.amount)
		assert.Equal(t, tc.expected, v.String(), tc.amount)
	}

	t.Run("should reject malformed, non-positive and over-precise amounts", func(t *testing.T) {
		for _, amount := range []string{"abc", "", "0", "-3", "0.0000001"} {
			_, err := ToBaseUnits(amount, 6)
			assert.ErrorIs(t, err, ErrInvalidAmount, amount)
		}
	})

	t.Run("should reject amounts overflowing u64", func(t *testing.T) {
		_, err := toUint64BaseUnits("100000000000", 9)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "0.000021", FormatUnits(big.NewInt(21_000_000_000_000), 18, 6))
	assert.Equal(t, "0.000000", FormatUnits(big.NewInt(1), 18, 6))
	assert.Equal(t, "1.500000", FormatUnits(big.NewInt(1_500_000), 6, 6))
}

func TestGasLimit(t *testing.T) {
	testCases := map[uint64]uint64{
		0:     0,
		1:     2,
		2:     3,
		3:     5,
		21000: 31500,
		50001: 75002,
	}

	for estimate, expected := range testCases {
		assert.Equal(t, expected, GasLimit(estimate), "estimate %d", estimate)
	}

	t.Run("should equal ceil(estimate × 1.5)", func(t *testing.T) {
		for estimate := uint64(0); estimate < 1000; estimate++ {
			ceil := (estimate*3 + 1) / 2
			assert.Equal(t, ceil, GasLimit(estimate))
		}
	})
}
