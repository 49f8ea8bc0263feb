package config

import "os"

// Environment variable names. DUNKEY_AES_KEY is the one deployment-critical
// value: the base64-encoded vault encryption key.
const (
	EnvAddress     = "DUNKEY_ADDRESS"
	EnvDatabaseDSN = "DUNKEY_DATABASE_DSN"
	EnvAESKey      = "DUNKEY_AES_KEY"
	EnvSecretKey   = "DUNKEY_SECRET_KEY"
)

// parseEnv overlays Config fields from environment variables. Unset
// variables leave the current value untouched.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv(EnvAddress); ok {
		config.Address = v
	}
	if v, ok := os.LookupEnv(EnvDatabaseDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(EnvAESKey); ok {
		config.EncryptionKeyB64 = v
	}
	if v, ok := os.LookupEnv(EnvSecretKey); ok {
		config.SecretKey = v
	}
}
