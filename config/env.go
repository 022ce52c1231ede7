package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/while-basic/celaya-parachain-sub001/core"
)

// Environment variable names read by FromEnv.
const (
	EnvPolicy      = "CELAYA_POLICY"
	EnvLedgerDir   = "CELAYA_LEDGER_DIR"
	EnvSigningSeed = "CELAYA_SIGNING_SEED"
	EnvLogLevel    = "CELAYA_LOG_LEVEL"
	EnvLogFormat   = "CELAYA_LOG_FORMAT"
	EnvModel       = "CELAYA_MODEL_PROVIDER"
)

// Env is the process-level configuration taken from the environment.
type Env struct {
	PolicyPath    string
	LedgerDir     string
	SigningSeed   string // hex encoded ed25519 seed
	LogLevel      string
	LogFormat     string
	ModelProvider string // anthropic, openai, gemini or empty
}

// LoadEnv loads .env style files into the process environment without
// overriding variables that are already set. With no arguments ".env" is
// read. Missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return core.E("config.load_env", core.KindInvalidInput, err)
		}
	}

	return nil
}

// FromEnv reads Env from the process environment.
func FromEnv() Env {
	return Env{
		PolicyPath:    os.Getenv(EnvPolicy),
		LedgerDir:     os.Getenv(EnvLedgerDir),
		SigningSeed:   os.Getenv(EnvSigningSeed),
		LogLevel:      os.Getenv(EnvLogLevel),
		LogFormat:     os.Getenv(EnvLogFormat),
		ModelProvider: os.Getenv(EnvModel),
	}
}

// LoadPolicy returns the policy at e.PolicyPath, or the default policy when
// no path is configured.
func (e Env) LoadPolicy() (*Policy, error) {
	if e.PolicyPath == "" {
		return Default(), nil
	}

	return Load(e.PolicyPath)
}
