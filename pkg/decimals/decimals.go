package decimals

import (
	"math"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/shopspring/decimal"
)

var maxAmount = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// ToDecimal converts a raw token amount to its display value, amount / 10^decimals.
func ToDecimal(amount uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
}

// ToAmount converts a display value back to a raw token amount.
// Returns errs.InvalidArgument if the value has more fractional digits than decimals or doesn't fit in uint64.
func ToAmount(value decimal.Decimal, decimals uint8) (uint64, error) {
	raw := value.Shift(int32(decimals))
	if !raw.IsInteger() {
		return 0, errors.Wrapf(errs.InvalidArgument, "%s has more than %d decimal places", value, decimals)
	}
	if raw.IsNegative() || raw.GreaterThan(maxAmount) {
		return 0, errors.Wrapf(errs.InvalidArgument, "%s is out of range", value)
	}
	return raw.BigInt().Uint64(), nil
}
