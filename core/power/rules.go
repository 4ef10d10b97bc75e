// Package power adjusts energy gained and consumed by power endpoints.
//
// The rules are pure: they combine a base amount, a radiation flag, a
// difficulty tier and, for consumption, an elevated-context flag. They
// accept any float, including negative and NaN amounts, and never fail.
package power

import (
	"fmt"
	"math"

	"deathrun-power/core/types"
)

// MaxFactor is the largest multiplier any tier applies to a draw
const MaxFactor = 5

// MaxAmount bounds input magnitudes with a factor of two to spare, so the
// adjusted value and a few sums of them stay finite
const MaxAmount = math.MaxFloat64 / (2 * MaxFactor)

// InRange reports whether amount stays a finite number after any adjustment.
// The rules themselves accept anything; callers at the input boundary use
// this to keep results encodable.
func InRange(amount float64) bool {
	return !math.IsNaN(amount) && math.Abs(amount) <= MaxAmount
}

// GainDivisor returns the divisor applied to energy gained
func GainDivisor(inRadiation bool, tier types.Tier) float64 {
	switch tier {
	case types.TierDeathrun:
		if inRadiation {
			return 4
		}
		return 3
	case types.TierHard:
		if inRadiation {
			return 3
		}
		return 2
	default:
		return 1
	}
}

// ConsumptionFactor returns the multiplier applied to energy consumed.
// Radiation takes priority over the elevated context.
func ConsumptionFactor(inRadiation, elevated bool, tier types.Tier) float64 {
	if inRadiation {
		switch tier {
		case types.TierDeathrun:
			return 5
		case types.TierHard:
			return 3
		}
		return 1
	}
	if elevated {
		switch tier {
		case types.TierDeathrun:
			return 3
		case types.TierHard:
			return 2
		}
	}
	return 1
}

// AdjustGain returns the energy actually added when amount is requested
func AdjustGain(amount float64, inRadiation bool, tier types.Tier) float64 {
	d := GainDivisor(inRadiation, tier)
	if d == 1 {
		return amount
	}
	return amount / d
}

// AdjustConsumption returns the energy actually drawn when amount is requested
func AdjustConsumption(amount float64, inRadiation, elevated bool, tier types.Tier) float64 {
	f := ConsumptionFactor(inRadiation, elevated, tier)
	if f == 1 {
		return amount
	}
	return amount * f
}

// Formula describes the arithmetic applied to a requested amount
func Formula(direction types.Direction, inRadiation, elevated bool, tier types.Tier) string {
	if direction == types.DirectionGain {
		d := GainDivisor(inRadiation, tier)
		if d == 1 {
			return "requested"
		}
		return fmt.Sprintf("requested / %g (%s%s)", d, tier, radiationSuffix(inRadiation))
	}

	f := ConsumptionFactor(inRadiation, elevated, tier)
	if f == 1 {
		return "requested"
	}
	if inRadiation {
		return fmt.Sprintf("requested * %g (%s, radiation)", f, tier)
	}
	return fmt.Sprintf("requested * %g (%s, elevated)", f, tier)
}

func radiationSuffix(inRadiation bool) string {
	if inRadiation {
		return ", radiation"
	}
	return ""
}
