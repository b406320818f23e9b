package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/crypto"
)

// Actors maps human readable names to the index of their key derivation
// path. Keys are never stored, they are derived from the master seed.
type Actors map[string]uint32

func newActors(names []string) (Actors, error) {
	actors := make(Actors, len(names))
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("actor %d: empty name", i)
		}
		if _, ok := actors[name]; ok {
			return nil, fmt.Errorf("actor %q declared twice", name)
		}
		actors[name] = uint32(i)
	}
	return actors, nil
}

func loadActors(path string) (Actors, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read actors file: %s", err)
	}
	var actors Actors
	if err := json.Unmarshal(raw, &actors); err != nil {
		return nil, fmt.Errorf("cannot parse actors file: %s", err)
	}
	return actors, nil
}

func (a Actors) save(path string) error {
	raw, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize actors: %s", err)
	}
	if err := os.WriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("cannot write actors file: %s", err)
	}
	return nil
}

// Names returns all actor names in derivation order.
func (a Actors) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return a[names[i]] < a[names[j]] })
	return names
}

// Key derives the private key of the named actor.
func (a Actors) Key(seed, name string) (*crypto.PrivateKey, error) {
	idx, ok := a[name]
	if !ok {
		return nil, fmt.Errorf("unknown actor %q", name)
	}
	return crypto.DerivePrivKeyEd25519([]byte(seed), fmt.Sprintf("m/44'/234'/%d'", idx))
}

// Address returns the address of the named actor.
func (a Actors) Address(seed, name string) (bazaar.Address, error) {
	key, err := a.Key(seed, name)
	if err != nil {
		return nil, err
	}
	return key.PublicKey().Address(), nil
}
