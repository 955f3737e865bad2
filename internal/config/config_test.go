//go:build !integration

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesjscully/we-relate/internal/config"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_CreditDefaults(t *testing.T) {
	t.Run("absent keys fall back", func(t *testing.T) {
		path := writeConfigFile(t, "bot:\n  token: t\n")

		cfg, err := config.LoadConfig(path, true)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Credits.WelcomeGrant != 50 {
			t.Errorf("WelcomeGrant = %d, want 50", cfg.Credits.WelcomeGrant)
		}
		if cfg.Credits.CostPerTurn != 1 {
			t.Errorf("CostPerTurn = %d, want 1", cfg.Credits.CostPerTurn)
		}
	})

	t.Run("explicit zero stays zero", func(t *testing.T) {
		path := writeConfigFile(t, "credits:\n  welcome_grant: 0\n  cost_per_turn: 0\n")

		cfg, err := config.LoadConfig(path, true)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Credits.WelcomeGrant != 0 {
			t.Errorf("WelcomeGrant = %d, want 0 (no signup credits)", cfg.Credits.WelcomeGrant)
		}
		if cfg.Credits.CostPerTurn != 0 {
			t.Errorf("CostPerTurn = %d, want 0 (free mode)", cfg.Credits.CostPerTurn)
		}
	})

	t.Run("negative values clamp to zero", func(t *testing.T) {
		path := writeConfigFile(t, "credits:\n  welcome_grant: -5\n  cost_per_turn: -2\n")

		cfg, err := config.LoadConfig(path, true)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Credits.WelcomeGrant != 0 || cfg.Credits.CostPerTurn != 0 {
			t.Errorf("credits = %+v, want both clamped to 0", cfg.Credits)
		}
	})
}
