// Package vanity grinds ed25519 key pairs whose base58 address matches a
// prefix/suffix constraint. The grind is bounded, cancellable and yields to
// the scheduler at a fixed attempt interval so the caller stays responsive.
package vanity

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxPartLen bounds each of prefix and suffix.
	MaxPartLen = 4
	// MaxCombinedLen bounds prefix+suffix together.
	MaxCombinedLen = 8
)

var (
	ErrConstraintTooLong = errors.New("vanity: combined constraint exceeds 8 characters")
	ErrConstraintEmpty   = errors.New("vanity: no enabled constraint")
)

// Constraint is the user-selected address shape. A disabled part is ignored
// even when its text is non-empty.
type Constraint struct {
	PrefixEnabled bool
	Prefix        string
	SuffixEnabled bool
	Suffix        string
}

// Normalize trims and drops disabled parts, then validates the length caps.
func (c Constraint) Normalize() (prefix, suffix string, err error) {
	if c.PrefixEnabled {
		prefix = strings.TrimSpace(c.Prefix)
	}
	if c.SuffixEnabled {
		suffix = strings.TrimSpace(c.Suffix)
	}
	if prefix == "" && suffix == "" {
		return "", "", ErrConstraintEmpty
	}
	if len(prefix) > MaxPartLen || len(suffix) > MaxPartLen {
		return "", "", fmt.Errorf("%w: prefix=%d suffix=%d", ErrConstraintTooLong, len(prefix), len(suffix))
	}
	if len(prefix)+len(suffix) > MaxCombinedLen {
		return "", "", fmt.Errorf("%w: combined=%d", ErrConstraintTooLong, len(prefix)+len(suffix))
	}
	return prefix, suffix, nil
}

// Matches reports whether a base58 address satisfies the normalized parts.
func Matches(addr, prefix, suffix string) bool {
	if prefix != "" && !strings.HasPrefix(addr, prefix) {
		return false
	}
	if suffix != "" && !strings.HasSuffix(addr, suffix) {
		return false
	}
	return true
}
