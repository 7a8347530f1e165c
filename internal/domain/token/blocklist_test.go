package token

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlocklistMatching(t *testing.T) {
	b := NewBlocklist([]struct{ Name, Symbol string }{
		{Name: "Wrapped SOL", Symbol: "SOL"},
		{Name: "USD Coin", Symbol: "USDC"},
	})

	assert.True(t, b.NameRestricted("wrapped sol"))
	assert.True(t, b.NameRestricted("  Wrapped SOL  "))
	assert.True(t, b.SymbolRestricted("usdc"))
	assert.False(t, b.NameRestricted("My Token"))
	assert.False(t, b.SymbolRestricted("MYT"))
	assert.False(t, b.NameRestricted(""))
}

func TestBlocklistNilIsPermissive(t *testing.T) {
	var b *Blocklist
	assert.False(t, b.NameRestricted("Wrapped SOL"))
	assert.False(t, b.SymbolRestricted("SOL"))
}

func TestLoadBlocklist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocklist.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name": "Wrapped SOL", "symbol": "SOL"},
		{"name": "Tether", "symbol": "USDT"}
	]`), 0o644))

	b, err := LoadBlocklist(path)
	require.NoError(t, err)
	assert.True(t, b.SymbolRestricted("usdt"))
	assert.True(t, b.NameRestricted("TETHER"))

	_, err = LoadBlocklist(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
