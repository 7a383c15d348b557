package utils

// Market cap and curve price estimates. These are display/fee-tier inputs
// only; the execution service owns the authoritative pricing.

// EstimateMarketCap values the full supply at the last observed trade
// price. price is base currency (SOL) per whole token, solPrice converts
// to the fee schedule's USD-denominated tiers.
func EstimateMarketCap(price float64, totalSupply uint64, solPrice float64) float64 {
	return price * float64(totalSupply) * solPrice
}

// EstimateCurvePrice approximates the bonding pool spot price from its
// virtual reserves under the constant product rule.
func EstimateCurvePrice(vSol, vToken float64) float64 {
	if vToken == 0 {
		return 0
	}
	return vSol / vToken
}

// SimulateConstantProductOut returns the output amount for a given input
// against reserves (in, out), after the pool fee.
func SimulateConstantProductOut(amountIn, reserveIn, reserveOut, fee float64) float64 {
	inWithFee := amountIn * (1 - fee)
	k := reserveIn * reserveOut
	newIn := reserveIn + inWithFee
	newOut := k / newIn
	return reserveOut - newOut
}
