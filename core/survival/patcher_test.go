package survival

import (
	"testing"

	"deathrun-power/core/notify"
	"deathrun-power/core/types"
)

type manualClock struct {
	t float64
}

func (c *manualClock) Now() float64 { return c.t }

func newPatcher(challenge types.FoodChallenge, n *Nitrogen) (*Patcher, *manualClock, *notify.Inbox) {
	settings := DefaultSettings()
	settings.Challenge = challenge
	clock := &manualClock{t: 100}
	inbox := notify.NewInbox()
	return NewPatcher(settings, n, clock, inbox, nil), clock, inbox
}

func TestFirstAidKitHalvesSafeDepth(t *testing.T) {
	p, clock, inbox := newPatcher(types.FoodOmnivore, &Nitrogen{SafeDepth: 80})

	skip, _ := p.BeforeUse(types.TechFirstAidKit)
	if skip {
		t.Fatal("the host's use must always run")
	}
	if !p.AfterUse(types.TechFirstAidKit, false) {
		t.Error("a purge must force a successful use")
	}
	if p.Nitrogen().SafeDepth != 40 {
		t.Errorf("Expected safe depth 40, got %v", p.Nitrogen().SafeDepth)
	}

	// second kit within the notice interval purges silently
	clock.t = 130
	p.BeforeUse(types.TechFirstAidKit)
	p.AfterUse(types.TechFirstAidKit, true)
	if p.Nitrogen().SafeDepth != 20 {
		t.Errorf("Expected safe depth 20, got %v", p.Nitrogen().SafeDepth)
	}
	if n := inbox.Count(FirstAidNotice); n != 1 {
		t.Errorf("Expected one throttled notice, got %d", n)
	}

	// dropping under the floor converts the safe depth into a level
	clock.t = 200
	p.BeforeUse(types.TechFirstAidKit)
	if p.Nitrogen().SafeDepth != 10 {
		t.Fatalf("Expected safe depth 10, got %v", p.Nitrogen().SafeDepth)
	}
	if p.Nitrogen().Level != 0 {
		t.Errorf("level stays untouched at exactly the floor, got %v", p.Nitrogen().Level)
	}
	if n := inbox.Count(FirstAidNotice); n != 2 {
		t.Errorf("Expected a second notice after the interval, got %d", n)
	}
}

func TestFirstAidKitBelowFloorClearsLevel(t *testing.T) {
	p, _, _ := newPatcher(types.FoodOmnivore, &Nitrogen{SafeDepth: 8, Level: 35})

	p.BeforeUse(types.TechFirstAidKit)
	if !p.AfterUse(types.TechFirstAidKit, false) {
		t.Error("clearing a level counts as a successful use")
	}
	if p.Nitrogen().Level != 0 || p.Nitrogen().SafeDepth != 8 {
		t.Errorf("Unexpected nitrogen state %+v", *p.Nitrogen())
	}

	// nothing left to purge: the host result stands
	p.BeforeUse(types.TechFirstAidKit)
	if p.AfterUse(types.TechFirstAidKit, false) {
		t.Error("Expected host result to stand when nothing was purged")
	}
}

func TestSafeDepthUnderFloorSetsLevel(t *testing.T) {
	p, _, _ := newPatcher(types.FoodOmnivore, &Nitrogen{SafeDepth: 12})

	p.BeforeUse(types.TechFirstAidKit)
	if p.Nitrogen().SafeDepth != 6 || p.Nitrogen().Level != 60 {
		t.Errorf("Expected safe depth 6 and level 60, got %+v", *p.Nitrogen())
	}
}

func TestOtherItemsAreUntouched(t *testing.T) {
	p, _, _ := newPatcher(types.FoodOmnivore, &Nitrogen{SafeDepth: 80, Level: 5})

	p.BeforeUse(types.TechType("Flashlight"))
	if p.AfterUse(types.TechType("Flashlight"), false) {
		t.Error("Expected host result to stand")
	}
	if p.Nitrogen().SafeDepth != 80 {
		t.Errorf("Expected safe depth untouched, got %v", p.Nitrogen().SafeDepth)
	}
}

func TestDietChallengeWarnings(t *testing.T) {
	tests := []struct {
		challenge types.FoodChallenge
		value     float64
		want      string
	}{
		{types.FoodVegan, -25, "Vegan Challenge: Negative Food Value!"},
		{types.FoodVegetarian, -25, "Vegetarian Challenge: Negative Food Value!"},
		{types.FoodPescatarian, -25, "Pescatarian Challenge: Negative Food Value!"},
		{types.FoodOmnivore, -25, ""},
		{types.FoodVegan, 12, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.challenge), func(t *testing.T) {
			p, _, inbox := newPatcher(tt.challenge, nil)
			p.BeforeEat(types.Food{Tech: "Peeper", FoodValue: tt.value})

			msgs := inbox.Messages()
			if tt.want == "" {
				if len(msgs) != 0 {
					t.Errorf("Expected no message, got %v", msgs)
				}
				return
			}
			if len(msgs) != 1 || msgs[0].Text != tt.want || !msgs[0].Center || msgs[0].Seconds != 5 {
				t.Errorf("Expected centered %q, got %+v", tt.want, msgs)
			}
		})
	}
}

func TestBoomerangPurges(t *testing.T) {
	p, _, inbox := newPatcher(types.FoodOmnivore, &Nitrogen{SafeDepth: 30})
	boomerang := types.Food{Tech: types.TechBoomerang, FoodValue: 10}

	p.AfterEat(boomerang, false)
	if p.Nitrogen().SafeDepth != 30 {
		t.Fatal("a failed eat must not purge")
	}

	p.AfterEat(boomerang, true)
	if p.Nitrogen().SafeDepth != 15 {
		t.Errorf("Expected safe depth 15, got %v", p.Nitrogen().SafeDepth)
	}
	if inbox.Count(BoomerangNotice) != 1 {
		t.Errorf("Expected the boomerang notice once, got %v", inbox.Messages())
	}

	p.AfterEat(types.Food{Tech: types.TechLavaBoomerang}, true)
	if p.Nitrogen().SafeDepth != 7.5 || p.Nitrogen().Level != 75 {
		t.Errorf("Expected safe depth 7.5 and level 75, got %+v", *p.Nitrogen())
	}

	p.AfterEat(boomerang, true)
	if p.Nitrogen().Level != 0 {
		t.Errorf("Expected level cleared below the floor, got %v", p.Nitrogen().Level)
	}
}

func TestRespawnReset(t *testing.T) {
	p, clock, _ := newPatcher(types.FoodOmnivore, nil)

	stats := &types.Stats{Food: 50, Water: 100}
	if p.BeforeReset(stats) {
		t.Fatal("a game that never started resets normally")
	}

	p.StartGame(100)
	clock.t = 399
	if p.BeforeReset(stats) {
		t.Fatal("respawns inside the grace period reset normally")
	}

	clock.t = 400
	if !p.BeforeReset(stats) {
		t.Fatal("Expected the host reset to be skipped after the grace period")
	}
	if stats.Food != 45 {
		t.Errorf("Expected food 45, got %v", stats.Food)
	}
	if stats.Water != 90 {
		t.Errorf("Expected water 90, got %v", stats.Water)
	}

	low := &types.Stats{Food: 5, Water: 200}
	p.BeforeReset(low)
	if low.Food != 12 || low.Water != 90.5 {
		t.Errorf("Expected clamped stats 12/90.5, got %+v", *low)
	}
}
