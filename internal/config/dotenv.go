package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                     string
	TurnSeconds              int
	MaxMembers               int
	PointsForSuccess         int
	PointsForFailure         int
	CanvasPoints             int
	CoordPackMax             int
	RequestsPerSecond        float64
	RequestBurst             int
	SendBuffer               int
	WordsPath                string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
}

func Default() Config {
	return Config{
		Port:                     "8080",
		TurnSeconds:              60,
		MaxMembers:               9,
		PointsForSuccess:         100,
		PointsForFailure:         1,
		CanvasPoints:             1000,
		CoordPackMax:             32,
		RequestsPerSecond:        40,
		RequestBurst:             80,
		SendBuffer:               256,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("TURN_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.TurnSeconds = value
		}
	}
	if raw := os.Getenv("MAX_MEMBERS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 && value <= 9 {
			cfg.MaxMembers = value
		}
	}
	if raw := os.Getenv("POINTS_FOR_SUCCESS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.PointsForSuccess = value
		}
	}
	if raw := os.Getenv("POINTS_FOR_FAILURE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.PointsForFailure = value
		}
	}
	if raw := os.Getenv("CANVAS_POINTS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.CanvasPoints = value
		}
	}
	if raw := os.Getenv("COORD_PACK_MAX"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.CoordPackMax = value
		}
	}
	if raw := os.Getenv("REQUESTS_PER_SECOND"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 {
			cfg.RequestsPerSecond = value
		}
	}
	if raw := os.Getenv("REQUEST_BURST"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.RequestBurst = value
		}
	}
	if raw := os.Getenv("SEND_BUFFER"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.SendBuffer = value
		}
	}
	if raw := os.Getenv("WORDS_PATH"); raw != "" {
		cfg.WordsPath = raw
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	return cfg
}
