// Package engine - One-off adjustments
package engine

import (
	"strings"

	"go.uber.org/multierr"

	"deathrun-power/core/power"
	"deathrun-power/core/types"
	"deathrun-power/internal/errors"
	"deathrun-power/internal/suggest"
)

// AdjustRequest asks for a single transfer to be adjusted outside any session
type AdjustRequest struct {
	// Direction is gain or consumption ("consume" is accepted)
	Direction types.Direction `json:"direction"`

	Amount float64    `json:"amount"`
	Tier   types.Tier `json:"tier"`

	// Radiation states whether the endpoint is irradiated
	Radiation bool `json:"radiation"`

	// Kind is the endpoint kind; a fixed installation is always elevated
	Kind types.EndpointKind `json:"kind,omitempty"`

	// Activities lists the activities running during the draw
	Activities []string `json:"activities,omitempty"`

	// Elevated forces the elevated context
	Elevated bool `json:"elevated,omitempty"`
}

// Adjust applies the power rules to one request
func Adjust(req AdjustRequest) (*power.Adjustment, error) {
	var errs error

	dir := types.Direction(strings.ToLower(string(req.Direction)))
	switch dir {
	case "consume", "draw":
		dir = types.DirectionConsumption
	case types.DirectionGain, types.DirectionConsumption:
	default:
		errs = multierr.Append(errs, errors.Input("unknown direction "+string(req.Direction)+
			suggest.Hint(string(req.Direction), []string{string(types.DirectionGain), string(types.DirectionConsumption)})))
	}

	tier := types.Tier(strings.ToLower(string(req.Tier)))
	if !tier.IsValid() {
		known := make([]string, len(types.Tiers))
		for i, t := range types.Tiers {
			known[i] = string(t)
		}
		errs = multierr.Append(errs, errors.Input("unknown tier "+string(req.Tier)+suggest.Hint(string(req.Tier), known)))
	}

	switch req.Kind {
	case "", types.KindInstallation, types.KindMobileRelay, types.KindTool, types.KindVehicle:
	default:
		errs = multierr.Append(errs, errors.Input("unknown endpoint kind "+string(req.Kind)))
	}

	if !power.InRange(req.Amount) {
		errs = multierr.Append(errs, errors.Newf(errors.TypeInput,
			"amount %g is out of range (magnitude at most %g)", req.Amount, power.MaxAmount))
	}

	var activities []types.Activity
	for _, name := range req.Activities {
		a, ok := types.ParseActivity(name)
		if !ok {
			known := make([]string, len(types.Activities))
			for i, k := range types.Activities {
				known[i] = k.String()
			}
			errs = multierr.Append(errs, errors.Input("unknown activity "+name+suggest.Hint(name, known)))
			continue
		}
		activities = append(activities, a)
	}

	if errs != nil {
		return nil, errs
	}

	adj := &power.Adjustment{
		Kind:       req.Kind,
		Direction:  dir,
		Tier:       tier,
		Requested:  req.Amount,
		Radiation:  req.Radiation,
		Activities: activities,
	}
	if dir == types.DirectionGain {
		adj.Adjusted = power.AdjustGain(req.Amount, req.Radiation, tier)
	} else {
		adj.Elevated = req.Elevated || req.Kind.IsFixed() || len(activities) > 0
		adj.Adjusted = power.AdjustConsumption(req.Amount, req.Radiation, adj.Elevated, tier)
	}
	adj.Formula = power.Formula(dir, req.Radiation, adj.Elevated, tier)
	return adj, nil
}
