package pricing

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// divisionPrecision is the number of decimal places carried through
// intermediate division before the result is rescaled and truncated.
const divisionPrecision = 28

var (
	// ErrMathOverflow indicates a conversion could not be represented, either
	// because of a zero divisor or because the result exceeds uint64.
	ErrMathOverflow = errors.New("math overflow")
)

// ConvertAmount converts an amount between two mints through a pair of
// prices quoted against a common unit:
//
//	result = amount * multiplier / divisor
//
// with every operand interpreted at its own decimal scale. The result is
// rescaled to toDecimals and truncated toward zero, so sub-unit remainders
// are never rounded up.
func ConvertAmount(
	amount uint64,
	amountDecimals uint8,
	multiplier uint64,
	multiplierDecimals uint8,
	divisor uint64,
	divisorDecimals uint8,
	toDecimals uint8,
) (uint64, error) {
	if divisor == 0 {
		return 0, ErrMathOverflow
	}

	amountValue := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(amountDecimals))
	multiplierValue := decimal.NewFromBigInt(new(big.Int).SetUint64(multiplier), -int32(multiplierDecimals))
	divisorValue := decimal.NewFromBigInt(new(big.Int).SetUint64(divisor), -int32(divisorDecimals))

	converted := amountValue.
		Mul(multiplierValue).
		DivRound(divisorValue, divisionPrecision).
		Shift(int32(toDecimals)).
		Truncate(0)

	result := converted.BigInt()
	if !result.IsUint64() {
		return 0, ErrMathOverflow
	}
	return result.Uint64(), nil
}

// QuoteSaleTokenAmount returns the amount of sale tokens a payment is worth:
// the payment is priced in USD through its feed, then divided by the USD
// price of a whole sale token.
func QuoteSaleTokenAmount(
	payerAmount uint64,
	payerDecimals uint8,
	feedValue uint64,
	feedDecimals uint8,
	usdPrice uint64,
	usdDecimals uint8,
	saleDecimals uint8,
) (uint64, error) {
	return ConvertAmount(
		payerAmount,
		payerDecimals,
		feedValue,
		feedDecimals,
		usdPrice,
		usdDecimals,
		saleDecimals,
	)
}

// PayerAmountForSaleTokens is the inverse quote: the payment required to buy
// an exact amount of sale tokens.
func PayerAmountForSaleTokens(
	saleAmount uint64,
	saleDecimals uint8,
	usdPrice uint64,
	usdDecimals uint8,
	feedValue uint64,
	feedDecimals uint8,
	payerDecimals uint8,
) (uint64, error) {
	return ConvertAmount(
		saleAmount,
		saleDecimals,
		usdPrice,
		usdDecimals,
		feedValue,
		feedDecimals,
		payerDecimals,
	)
}
