// Package types - Consumable items and diet challenges
package types

// TechType identifies an item the player can use or eat
type TechType string

const (
	TechFirstAidKit   TechType = "FirstAidKit"
	TechBoomerang     TechType = "Boomerang"
	TechLavaBoomerang TechType = "LavaBoomerang"
)

// Food is an edible item as seen by the eat hooks
type Food struct {
	Tech      TechType `json:"tech"`
	FoodValue float64  `json:"food_value"`
}

// FoodChallenge is the configured diet challenge
type FoodChallenge string

const (
	FoodOmnivore    FoodChallenge = "omnivore"
	FoodPescatarian FoodChallenge = "pescatarian"
	FoodVegetarian  FoodChallenge = "vegetarian"
	FoodVegan       FoodChallenge = "vegan"
)

// FoodChallenges lists every known challenge
var FoodChallenges = []FoodChallenge{FoodOmnivore, FoodPescatarian, FoodVegetarian, FoodVegan}

// IsValid checks if the challenge is known
func (c FoodChallenge) IsValid() bool {
	switch c {
	case FoodOmnivore, FoodPescatarian, FoodVegetarian, FoodVegan:
		return true
	default:
		return false
	}
}

// Stats are the survival stats restored on respawn
type Stats struct {
	Food  float64 `json:"food"`
	Water float64 `json:"water"`
}
