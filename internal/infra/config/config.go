package config

import (
	"os"
	"strconv"
)

// Config holds every environment-driven setting of the tool.
type Config struct {
	Port string

	// Solana connectivity
	RPCURL    string
	Network   string // devnet | mainnet-beta
	ProgramID string // sol_tool fee program

	// Operator wallet. Secret takes precedence over the inline keypair.
	WalletKeySecret string // Secret Manager version path
	WalletKeypair   string // solana-keygen JSON inline

	// AdminEnabled exposes the fee-table admin routes. Only useful when the
	// loaded wallet is the config owner.
	AdminEnabled bool

	// BlocklistPath points at the restricted name/symbol JSON. Empty skips
	// the check.
	BlocklistPath string

	// ConfirmTimeoutSeconds bounds the post-broadcast confirmation wait.
	ConfirmTimeoutSeconds int
}

// Load reads the environment into a Config.
func Load() *Config {
	cfg := &Config{
		Port:            getenvDefault("PORT", "8080"),
		RPCURL:          os.Getenv("SOLANA_RPC_URL"),
		Network:         getenvDefault("SOLANA_NETWORK", "devnet"),
		ProgramID:       os.Getenv("SOL_TOOL_PROGRAM_ID"),
		WalletKeySecret: os.Getenv("WALLET_KEY_SECRET"),
		WalletKeypair:   os.Getenv("WALLET_KEYPAIR"),
		AdminEnabled:    os.Getenv("FEE_ADMIN_ENABLED") == "true",
		BlocklistPath:   os.Getenv("BLOCKLIST_PATH"),

		ConfirmTimeoutSeconds: getenvInt("CONFIRM_TIMEOUT_SECONDS", 60),
	}
	return cfg
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
