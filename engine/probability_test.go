package engine

import (
	"testing"

	"shadowstrike/models"
)

func TestEstimateITM_ProbabilitiesSumTo100(t *testing.T) {
	cases := []struct {
		name   string
		spot   float64
		strike float64
		years  float64
		vol    float64
		kind   models.OptionKind
	}{
		{"atm call", 100, 100, 0.25, 0.20, models.OptionKindCall},
		{"otm call", 100, 120, 0.10, 0.35, models.OptionKindCall},
		{"deep itm call", 150, 100, 0.50, 0.25, models.OptionKindCall},
		{"atm put", 100, 100, 0.25, 0.20, models.OptionKindPut},
		{"itm put", 90, 100, 0.08, 0.40, models.OptionKindPut},
		{"tiny expiry", 100, 101, 1.0 / 365.0, 0.18, models.OptionKindCall},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			itm, otm := EstimateITM(tc.spot, tc.strike, tc.years, 0.05, tc.vol, tc.kind)
			if itm+otm != 100.0 {
				t.Errorf("expected itm+otm == 100, got %.4f + %.4f = %.4f", itm, otm, itm+otm)
			}
			if itm < 0 || itm > 100 {
				t.Errorf("itm out of range: %.4f", itm)
			}
		})
	}
}

func TestEstimateITM_DegenerateInputs(t *testing.T) {
	cases := []struct {
		name   string
		spot   float64
		strike float64
		years  float64
		vol    float64
	}{
		{"expired", 100, 100, 0, 0.20},
		{"negative expiry", 100, 100, -0.1, 0.20},
		{"zero volatility", 100, 100, 0.25, 0},
		{"zero strike", 100, 0, 0.25, 0.20},
		{"zero spot", 0, 100, 0.25, 0.20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			itm, otm := EstimateITM(tc.spot, tc.strike, tc.years, 0.05, tc.vol, models.OptionKindCall)
			if itm != NeutralProbability || otm != NeutralProbability {
				t.Errorf("expected 50/50, got %.1f/%.1f", itm, otm)
			}
		})
	}
}

func TestEstimateITM_CallMonotonicInSpot(t *testing.T) {
	var prev float64 = -1
	for _, spot := range []float64{80, 90, 100, 110, 120, 150} {
		itm, _ := EstimateITM(spot, 100, 0.25, 0.05, 0.20, models.OptionKindCall)
		if itm < prev {
			t.Fatalf("call ITM probability decreased as spot rose: spot=%.0f itm=%.1f prev=%.1f", spot, itm, prev)
		}
		prev = itm
	}
}

func TestEstimateITM_PutCallComplement(t *testing.T) {
	callITM, _ := EstimateITM(100, 105, 0.25, 0.05, 0.30, models.OptionKindCall)
	putITM, _ := EstimateITM(100, 105, 0.25, 0.05, 0.30, models.OptionKindPut)

	// Phi(d1) + Phi(-d1) == 1, so the rounded percentages complement
	if callITM+putITM != 100.0 {
		t.Errorf("expected call ITM + put ITM == 100, got %.1f + %.1f", callITM, putITM)
	}
}

func TestEstimateITM_Rounding(t *testing.T) {
	itm, otm := EstimateITM(100, 103, 0.17, 0.05, 0.22, models.OptionKindCall)
	if itm != float64(int(itm*10))/10 {
		t.Errorf("itm not rounded to 1 decimal: %v", itm)
	}
	if otm != 100-itm {
		t.Errorf("otm is not the exact complement: %v vs %v", otm, 100-itm)
	}
}
