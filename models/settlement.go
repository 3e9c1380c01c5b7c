package models

import "github.com/shopspring/decimal"

// PlatformFeeRate is the cut the platform retains from every settled pool.
var PlatformFeeRate = decimal.NewFromFloat(0.10)

// PrizePoolFor returns the portion of the collected stakes that is
// distributable to winners after the platform fee.
func PrizePoolFor(totalCollected decimal.Decimal) decimal.Decimal {
	return totalCollected.Mul(decimal.NewFromInt(1).Sub(PlatformFeeRate))
}

// SplitPrize divides the prize pool equally among winnerCount winners.
// Stakes are uniform within a pool, so an equal split is a fair split.
func SplitPrize(prizePool decimal.Decimal, winnerCount int) decimal.Decimal {
	if winnerCount <= 0 {
		return decimal.Zero
	}
	return prizePool.Div(decimal.NewFromInt(int64(winnerCount)))
}
