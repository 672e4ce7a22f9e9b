package evaluator

import "github.com/metusa-property/deal-analyzer/internal/config"

// StampDuty computes England & NI SDLT on a purchase price using a marginal
// band walk: each band taxes only the portion of the price that falls inside
// it. The additional-property surcharge is a flat percentage of the entire
// price, added on top of the banded tax.
func StampDuty(cfg config.SDLTConfig, price float64, secondProperty bool) float64 {
	var tax float64
	lower := 0.0
	for _, band := range cfg.Bands {
		upper := band.UpperBound
		if upper == 0 || upper > price {
			upper = price
		}
		if upper > lower {
			tax += (upper - lower) * band.Rate
		}
		if band.UpperBound == 0 || band.UpperBound >= price {
			break
		}
		lower = band.UpperBound
	}

	if secondProperty {
		tax += price * cfg.SurchargeRate
	}
	return tax
}
