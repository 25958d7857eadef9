package config

import (
	"fmt"
	"os"
	"time"
)

// AppConfig aggregates everything the service reads from the environment.
type AppConfig struct {
	Service ServiceConfig
	Chain   ChainConfig
	Keys    KeysConfig
}

type ServiceConfig struct {
	HTTPPort      int
	HMACClockSkew time.Duration
}

type ChainConfig struct {
	RPCURL          string
	ChainID         int64
	ContractAddress string
}

// KeysConfig holds external credentials. A missing minter key is a fatal
// startup condition for the voucher issuer; the other credentials only fail
// their dependent endpoint.
type KeysConfig struct {
	MinterPrivateKey string
	NeynarAPIKey     string
	ImageAPIToken    string
	ImageEndpoint    string
	RequestSecret    string
}

// Load reads configuration from the environment.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Service: ServiceConfig{
			HTTPPort:      envOrInt("API_HTTP_PORT", 3000),
			HMACClockSkew: time.Duration(envOrInt("HMAC_CLOCK_SKEW_SECONDS", 60)) * time.Second,
		},
		Chain: ChainConfig{
			RPCURL:          envOr("CHAIN_RPC_URL", ""),
			ChainID:         int64(envOrInt("CHAIN_ID", 8453)),
			ContractAddress: envOr("CONTRACT_ADDRESS", ""),
		},
		Keys: KeysConfig{
			MinterPrivateKey: envOr("MINTER_PRIVATE_KEY", ""),
			NeynarAPIKey:     envOr("NEYNAR_API_KEY", ""),
			ImageAPIToken:    envOr("IMAGE_API_TOKEN", ""),
			ImageEndpoint:    envOr("IMAGE_API_ENDPOINT", ""),
			RequestSecret:    envOr("REQUEST_SIGNING_SECRET", ""),
		},
	}

	if cfg.Chain.RPCURL == "" {
		return nil, fmt.Errorf("CHAIN_RPC_URL is required")
	}
	if cfg.Chain.ContractAddress == "" {
		return nil, fmt.Errorf("CONTRACT_ADDRESS is required")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
	}
	return fallback
}
