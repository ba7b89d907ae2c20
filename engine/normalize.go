package engine

import (
	"math"
	"sort"
	"time"

	"shadowstrike/models"
)

// DefaultImpliedVolatility is the percentage substituted when a source
// reports no usable IV for a contract.
const DefaultImpliedVolatility = 20.0

// RawOptionQuote is the provider-shaped record the normalizer consumes.
// Optional numeric fields are pointers so that "absent" is distinguishable
// from zero; ImpliedVolatility is an annualized fraction as quoted upstream.
type RawOptionQuote struct {
	Underlying        string
	Kind              string
	Strike            float64
	Expiration        string // YYYY-MM-DD
	Last              *float64
	Bid               *float64
	Ask               *float64
	Volume            *int64
	OpenInterest      *int64
	ImpliedVolatility *float64
}

// NormalizeQuote converts a single raw record into a canonical OptionQuote.
// Records missing strike, expiration, or price fail with MalformedQuoteError.
// Volume and open interest coalesce to 0, implied volatility to 20.0%.
func NormalizeQuote(raw RawOptionQuote, now time.Time) (models.OptionQuote, error) {
	if raw.Strike <= 0 {
		return models.OptionQuote{}, &MalformedQuoteError{Field: "strike"}
	}
	if raw.Expiration == "" {
		return models.OptionQuote{}, &MalformedQuoteError{Field: "expiration"}
	}
	expiration, err := time.Parse("2006-01-02", raw.Expiration)
	if err != nil {
		return models.OptionQuote{}, &MalformedQuoteError{Field: "expiration"}
	}
	if raw.Last == nil || math.IsNaN(*raw.Last) {
		return models.OptionQuote{}, &MalformedQuoteError{Field: "price"}
	}

	kind := models.OptionKindCall
	if raw.Kind == "PUT" || raw.Kind == "put" {
		kind = models.OptionKindPut
	}

	iv := DefaultImpliedVolatility
	if raw.ImpliedVolatility != nil && !math.IsNaN(*raw.ImpliedVolatility) && *raw.ImpliedVolatility >= 0 {
		iv = round1(*raw.ImpliedVolatility * 100)
	}

	return models.OptionQuote{
		Underlying:        raw.Underlying,
		Kind:              kind,
		Strike:            round2(raw.Strike),
		Expiration:        expiration,
		Price:             round2(*raw.Last),
		Bid:               round2(coalesce(raw.Bid)),
		Ask:               round2(coalesce(raw.Ask)),
		Volume:            coalesceInt(raw.Volume),
		OpenInterest:      coalesceInt(raw.OpenInterest),
		ImpliedVolatility: iv,
		DaysToExpiry:      daysBetween(now, expiration),
	}, nil
}

// NormalizeChain normalizes a whole raw chain, dropping malformed records and
// returning the survivors sorted by (expiration, strike). An empty result is
// valid: it means no candidates for the symbol, not an error.
func NormalizeChain(raw []RawOptionQuote, now time.Time) []models.OptionQuote {
	chain := make([]models.OptionQuote, 0, len(raw))
	for _, r := range raw {
		q, err := NormalizeQuote(r, now)
		if err != nil {
			continue
		}
		chain = append(chain, q)
	}
	sort.SliceStable(chain, func(i, j int) bool {
		if !chain[i].Expiration.Equal(chain[j].Expiration) {
			return chain[i].Expiration.Before(chain[j].Expiration)
		}
		return chain[i].Strike < chain[j].Strike
	})
	return chain
}

func coalesce(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return *v
}

func coalesceInt(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func daysBetween(now, expiration time.Time) int {
	return int(math.Floor(expiration.Sub(now).Hours() / 24))
}

// round2 rounds monetary values to 2 decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds percentage values to 1 decimal.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
