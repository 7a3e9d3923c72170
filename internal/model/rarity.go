package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Rarity is the ordinal prize tier, 1 (common) to 4 (legendary).
type Rarity int

const (
	RarityCommon    Rarity = 1
	RarityRare      Rarity = 2
	RarityEpic      Rarity = 3
	RarityLegendary Rarity = 4
)

var AllRarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

func (r Rarity) Valid() bool {
	return r >= RarityCommon && r <= RarityLegendary
}

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	case RarityLegendary:
		return "legendary"
	}
	return "rarity(" + strconv.Itoa(int(r)) + ")"
}

// RarityMap remaps a raw prize rarity to the rarity used for weighting.
type RarityMap map[Rarity]Rarity

// Resolve returns the mapped rarity, or r itself when the map has no entry.
func (m RarityMap) Resolve(r Rarity) Rarity {
	if mapped, ok := m[r]; ok {
		return mapped
	}
	return r
}

// RarityMultipliers holds optional per-rarity weight multipliers.
type RarityMultipliers map[Rarity]float64

// UnmarshalJSON accepts both the object form and the string-encoded form
// used by spreadsheet exports (`"{\"1\":2}"`).
func (m *RarityMap) UnmarshalJSON(data []byte) error {
	raw, err := unwrapJSONString(data)
	if err != nil {
		return err
	}
	var decoded map[Rarity]Rarity
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("rarity map: %w", err)
	}
	*m = decoded
	return nil
}

func (m *RarityMultipliers) UnmarshalJSON(data []byte) error {
	raw, err := unwrapJSONString(data)
	if err != nil {
		return err
	}
	var decoded map[Rarity]float64
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("rarity multipliers: %w", err)
	}
	*m = decoded
	return nil
}

func unwrapJSONString(data []byte) ([]byte, error) {
	if len(data) == 0 || data[0] != '"' {
		return data, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s == "" {
		return []byte("null"), nil
	}
	return []byte(s), nil
}
