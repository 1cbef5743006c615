package models

import (
	"fmt"
	"strings"
)

// Tier is the ordinal standing of a carrier in the network
type Tier string

const (
	TierGuest    Tier = "GUEST"
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

// Tiers lists every tier from lowest to highest
var Tiers = []Tier{TierGuest, TierBronze, TierSilver, TierGold, TierPlatinum}

// Rank returns the position of the tier in the total order, -1 for unknown values
func (t Tier) Rank() int {
	for i, tier := range Tiers {
		if tier == t {
			return i
		}
	}
	return -1
}

func (t Tier) Valid() bool {
	return t.Rank() >= 0
}

// Above reports whether t is strictly higher than other
func (t Tier) Above(other Tier) bool {
	return t.Rank() > other.Rank()
}

func (t Tier) String() string {
	return string(t)
}

// ParseTier accepts tier names in any case
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}
