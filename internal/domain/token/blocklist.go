// Package token carries naming policy for new tokens.
package token

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Blocklist rejects names and symbols that collide with established tokens.
// Matching is trimmed and case-insensitive.
type Blocklist struct {
	names   map[string]struct{}
	symbols map[string]struct{}
}

type blocklistEntry struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// NewBlocklist builds a list from entries.
func NewBlocklist(entries []struct{ Name, Symbol string }) *Blocklist {
	b := &Blocklist{
		names:   make(map[string]struct{}, len(entries)),
		symbols: make(map[string]struct{}, len(entries)),
	}
	for _, e := range entries {
		if n := normalize(e.Name); n != "" {
			b.names[n] = struct{}{}
		}
		if s := normalize(e.Symbol); s != "" {
			b.symbols[s] = struct{}{}
		}
	}
	return b
}

// LoadBlocklist reads a JSON array of {name, symbol} objects, the same shape
// as the published top-coins list.
func LoadBlocklist(path string) (*Blocklist, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("token: read blocklist: %w", err)
	}
	var entries []blocklistEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("token: parse blocklist: %w", err)
	}
	converted := make([]struct{ Name, Symbol string }, len(entries))
	for i, e := range entries {
		converted[i] = struct{ Name, Symbol string }{e.Name, e.Symbol}
	}
	return NewBlocklist(converted), nil
}

// NameRestricted reports a collision with a known token name.
func (b *Blocklist) NameRestricted(name string) bool {
	if b == nil {
		return false
	}
	n := normalize(name)
	if n == "" {
		return false
	}
	_, ok := b.names[n]
	return ok
}

// SymbolRestricted reports a collision with a known token symbol.
func (b *Blocklist) SymbolRestricted(symbol string) bool {
	if b == nil {
		return false
	}
	s := normalize(symbol)
	if s == "" {
		return false
	}
	_, ok := b.symbols[s]
	return ok
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
