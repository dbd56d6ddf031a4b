package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"TURN_SECONDS", "MAX_MEMBERS", "COORD_PACK_MAX", "WORDS_PATH"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.TurnSeconds != 60 {
		t.Fatalf("expected 60 second turns, got %d", cfg.TurnSeconds)
	}
	if cfg.MaxMembers != 9 {
		t.Fatalf("expected 9 members, got %d", cfg.MaxMembers)
	}
	if cfg.CanvasPoints != 1000 {
		t.Fatalf("expected 1000 canvas points, got %d", cfg.CanvasPoints)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TURN_SECONDS", "15")
	t.Setenv("MAX_MEMBERS", "4")
	t.Setenv("POINTS_FOR_FAILURE", "0")
	t.Setenv("REQUESTS_PER_SECOND", "2.5")
	t.Setenv("WORDS_PATH", "words.csv")
	cfg := Load()
	if cfg.TurnSeconds != 15 || cfg.MaxMembers != 4 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.PointsForFailure != 0 {
		t.Fatalf("expected zero penalty, got %d", cfg.PointsForFailure)
	}
	if cfg.RequestsPerSecond != 2.5 {
		t.Fatalf("expected 2.5 rps, got %v", cfg.RequestsPerSecond)
	}
	if cfg.WordsPath != "words.csv" {
		t.Fatalf("expected words path, got %q", cfg.WordsPath)
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("TURN_SECONDS", "soon")
	t.Setenv("MAX_MEMBERS", "20")
	t.Setenv("CANVAS_POINTS", "-5")
	cfg := Load()
	def := Default()
	if cfg.TurnSeconds != def.TurnSeconds || cfg.MaxMembers != def.MaxMembers || cfg.CanvasPoints != def.CanvasPoints {
		t.Fatalf("expected defaults for invalid values, got %+v", cfg)
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("DRAW_GUESS_DOTENV_MARKER=loaded\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("DRAW_GUESS_DOTENV_MARKER") })
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := os.Getenv("DRAW_GUESS_DOTENV_MARKER"); got != "loaded" {
		t.Fatalf("expected value from .env, got %q", got)
	}
}
