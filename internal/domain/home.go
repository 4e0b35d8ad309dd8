package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// PetType is one of the recognised pet categories a home can declare.
type PetType string

const (
	PetDogs     PetType = "dogs"
	PetCats     PetType = "cats"
	PetBirds    PetType = "birds"
	PetFish     PetType = "fish"
	PetReptiles PetType = "reptiles"
	PetRodents  PetType = "rodents"
	PetOther    PetType = "other"
)

var petTypes = []PetType{PetDogs, PetCats, PetBirds, PetFish, PetReptiles, PetRodents, PetOther}

// PetTypes lists every recognised pet type.
func PetTypes() []PetType { return slices.Clone(petTypes) }

func (p PetType) Valid() bool { return slices.Contains(petTypes, p) }

// Pets maps a pet type to the number of such pets living in a home.
//
// It decodes from either an object ({"dogs": 2}) or a bare list
// (["dogs", "cats"]); list entries are recorded with a count of 1.
type Pets map[PetType]int

func (p *Pets) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Pets{}
		return nil
	}

	if data[0] == '[' {
		var list []PetType
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("decode pets list: %w", err)
		}
		out := make(Pets, len(list))
		for _, t := range list {
			out[t] = 1
		}
		*p = out
		return nil
	}

	var m map[PetType]int
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decode pets object: %w", err)
	}
	if m == nil {
		m = map[PetType]int{}
	}
	*p = Pets(m)
	return nil
}

// Types returns the set of pet types present, sorted for stable output.
// Presence is key-based: a declared type with a zero count still counts.
func (p Pets) Types() []PetType {
	out := make([]PetType, 0, len(p))
	for t := range p {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

func (p Pets) Has(t PetType) bool {
	_, ok := p[t]
	return ok
}

// Validate enforces the pet inventory invariant: known keys, non-negative counts.
func (p Pets) Validate() error {
	for t, n := range p {
		if !t.Valid() {
			return fmt.Errorf("unknown pet type %q: %w", t, ErrInvalidInput)
		}
		if n < 0 {
			return fmt.Errorf("pet type %q has negative count %d: %w", t, n, ErrInvalidInput)
		}
	}
	return nil
}

// A customer's home. Coordinates stay nil until the address is geocoded.
type Home struct {
	ID          int64
	CustomerID  int64
	Name        string
	Address     Address
	Coordinates *Coordinates
	Pets        Pets
}
