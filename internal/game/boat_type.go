package game

import (
	"encoding/json"
	"fmt"
)

// BoatType is the immutable stat template a boat is built from.
type BoatType int

const (
	BoatFast BoatType = iota
	BoatAgile
	BoatEndurance
	BoatStrong
	BoatBalanced
)

var boatStats = []struct {
	name    string
	texture string
	health  float64
	stamina float64
	agility float64
	speed   float64
}{
	BoatFast:      {"FAST", "boat_fast.png", 80, 100, 85, 140},
	BoatAgile:     {"AGILE", "boat_agile.png", 90, 120, 95, 120},
	BoatEndurance: {"ENDURANCE", "boat_endurance.png", 100, 150, 80, 115},
	BoatStrong:    {"STRONG", "boat_strong.png", 150, 110, 75, 110},
	BoatBalanced:  {"BALANCED", "boat_balanced.png", 110, 120, 88, 125},
}

// BoatTypes lists every boat type in declaration order.
func BoatTypes() []BoatType {
	types := make([]BoatType, len(boatStats))
	for i := range boatStats {
		types[i] = BoatType(i)
	}
	return types
}

// ParseBoatType looks up a boat type by its enum name.
func ParseBoatType(name string) (BoatType, error) {
	for i, st := range boatStats {
		if st.name == name {
			return BoatType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: boat type %q", ErrUnknownType, name)
}

func (t BoatType) valid() bool { return t >= 0 && int(t) < len(boatStats) }

func (t BoatType) String() string {
	if !t.valid() {
		return "UNKNOWN"
	}
	return boatStats[t].name
}

func (t BoatType) Texture() string  { return boatStats[t].texture }
func (t BoatType) Health() float64  { return boatStats[t].health }
func (t BoatType) Stamina() float64 { return boatStats[t].stamina }
func (t BoatType) Agility() float64 { return boatStats[t].agility }
func (t BoatType) Speed() float64   { return boatStats[t].speed }

// MarshalJSON serializes BoatType as its enum name.
func (t BoatType) MarshalJSON() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: boat type %d", ErrUnknownType, int(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON deserializes BoatType from its enum name.
func (t *BoatType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	bt, err := ParseBoatType(s)
	if err != nil {
		return err
	}
	*t = bt
	return nil
}
