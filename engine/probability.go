package engine

import (
	"math"

	"shadowstrike/models"
)

// NeutralProbability is returned for each side when a contract's inputs are
// degenerate (expired, zero volatility, non-positive strike or spot).
// Expired contracts are routinely present in a chain, so this reflects
// "no information" rather than an error.
const NeutralProbability = 50.0

// EstimateITM computes the Black-Scholes probability of an option leg
// expiring in the money, given the spot price, strike, time to expiry in
// years, risk-free rate, and annualized volatility as a fraction.
//
// Both probabilities are returned as percentages rounded to 1 decimal; the
// OTM side is computed as the complement of the rounded ITM value so that
// probITM + probOTM == 100 holds exactly.
func EstimateITM(spot, strike, timeToExpiryYears, riskFreeRate, volatility float64, kind models.OptionKind) (probITM, probOTM float64) {
	if timeToExpiryYears <= 0 || volatility <= 0 || strike <= 0 || spot <= 0 {
		return NeutralProbability, NeutralProbability
	}

	d1 := (math.Log(spot/strike) + (riskFreeRate+0.5*volatility*volatility)*timeToExpiryYears) /
		(volatility * math.Sqrt(timeToExpiryYears))

	itm := normCDF(d1)
	if kind == models.OptionKindPut {
		itm = normCDF(-d1)
	}

	probITM = round1(itm * 100)
	return probITM, 100 - probITM
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
