package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deathrun-power/core/survival"
	"deathrun-power/core/types"
	"deathrun-power/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Expected defaults, got error %v", err)
	}
	if cfg.Tier() != types.TierDeathrun {
		t.Errorf("Expected default tier deathrun, got %s", cfg.Tier())
	}
}

func TestSaveLoadRoundTripYAMLAndJSON(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := Default()
			cfg.Difficulty.PowerCosts = "Hard"
			cfg.Difficulty.FoodChallenge = "vegan"
			cfg.Survival.ResetGraceSeconds = 120

			if err := cfg.Save(path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if loaded.Tier() != types.TierHard {
				t.Errorf("Expected tier hard, got %s", loaded.Tier())
			}
			if loaded.Challenge() != types.FoodVegan {
				t.Errorf("Expected vegan, got %s", loaded.Challenge())
			}
			if loaded.Survival.ResetGraceSeconds != 120 {
				t.Errorf("Expected grace 120, got %v", loaded.Survival.ResetGraceSeconds)
			}
		})
	}
}

func TestLoadYAMLKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yml")
	body := "difficulty:\n  power_costs: normal\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Tier() != types.TierNormal {
		t.Errorf("Expected normal, got %s", cfg.Tier())
	}
	if cfg.Survival.NoticeIntervalSeconds != 60 {
		t.Errorf("Expected default notice interval, got %v", cfg.Survival.NoticeIntervalSeconds)
	}
}

func TestUnknownTierSuggestsClosest(t *testing.T) {
	_, err := ParseTier("deathrn")
	if err == nil {
		t.Fatal("Expected error for unknown tier")
	}
	if !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("Expected CONFIG_ERROR, got %v", err)
	}
	if !strings.Contains(err.Error(), "did you mean deathrun?") {
		t.Errorf("Expected suggestion in %q", err.Error())
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"difficulty":{"power_costs":"brutal"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("Expected CONFIG_ERROR, got %v", err)
	}

	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.IsType(err, errors.TypeParsing) {
		t.Errorf("Expected PARSING_ERROR, got %v", err)
	}
}

func TestEmptyFoodChallengeIsOmnivore(t *testing.T) {
	fc, err := ParseFoodChallenge("")
	if err != nil || fc != types.FoodOmnivore {
		t.Errorf("Expected omnivore, got %s/%v", fc, err)
	}
}

func TestDefaultSurvivalSettingsMatchPatcherDefaults(t *testing.T) {
	if got := Default().SurvivalSettings(); got != survival.DefaultSettings() {
		t.Errorf("Expected %+v, got %+v", survival.DefaultSettings(), got)
	}
}

func TestUnknownStorageBackend(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "fil"
	err := cfg.Validate()
	if !errors.IsType(err, errors.TypeConfig) {
		t.Fatalf("Expected CONFIG_ERROR, got %v", err)
	}
	if !strings.Contains(err.Error(), "did you mean file?") {
		t.Errorf("Expected suggestion in %q", err.Error())
	}
}
