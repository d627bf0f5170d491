package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string `env:"PRIMEDUEL_ADDR" envDefault:":8080"`
	RoomCap           int    `env:"PRIMEDUEL_ROOM_CAP" envDefault:"10"`
	MillerRabinRounds int    `env:"PRIMEDUEL_MR_ROUNDS" envDefault:"16"`
}

// Load reads .env when present, then parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
