package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"inkwell/auth"
)

type Config struct {
	Port          int            `json:"port"`
	Env           string         `json:"env"`
	Pepper        string         `json:"pepper"`
	TokenSecret   string         `json:"token_secret"`
	TokenTTLHours int            `json:"token_ttl_hours"`
	Database      PostgresConfig `json:"database"`
	Admin         AdminConfig    `json:"admin"`
}

// AdminConfig describes the admin account ensured at startup. There is no
// self-serve admin registration; this is the only way an admin credential
// comes into existence.
type AdminConfig struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

// TokenTTL returns the credential lifetime as a duration,
// falling back to the authority's default.
func (c Config) TokenTTL() time.Duration {
	if c.TokenTTLHours <= 0 {
		return auth.DefaultTTL
	}
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func DefaultConfig() Config {
	return Config{
		Port:        1111,
		Env:         "dev",
		Pepper:      "secret-random-string",
		TokenSecret: "secret-token-signing-key",
		Database:    DefaultPostgresConfig(),
		Admin: AdminConfig{
			Name:     "admin",
			Email:    "admin@localhost",
			Password: "admin-dev-password",
		},
	}
}

func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "",
		Name:     "inkwell",
	}
}

// LoadConfig loads configuration from a .config.json file if present,
// otherwise it falls back to the default dev setup. In production the file
// is required, so that the app never runs with the dev signing secret.
func LoadConfig(prod bool) Config {
	f, err := os.Open(".config.json")
	if err != nil {
		if prod {
			panic("a .config.json file is required in production")
		}
		return DefaultConfig()
	}
	defer f.Close()
	var c Config
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		panic(err)
	}
	fmt.Println("Successfully loaded .config.json")
	return c
}
