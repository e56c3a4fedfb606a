package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Server struct {
	Port     int
	GraphiQL bool
}

type Postgres struct {
	Host        string
	Port        string
	Username    string
	Password    string
	Database    string
	Schema      string
	AutoMigrate bool
}

type Mongo struct {
	URI      string
	Database string
}

type Config struct {
	LogLevel string
	// Driver selects the store backend: postgres, mongo or memory.
	Driver string
	// Collection names the table or collection todos are kept in.
	Collection string
	Server     Server
	Postgres   Postgres
	Mongo      Mongo
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if present.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}

	graphiql, err := getBool("GRAPHIQL", false)
	if err != nil {
		return nil, err
	}
	autoMigrate, err := getBool("DB_AUTO_MIGRATE", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		Driver:     strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		Collection: getEnv("TODO_COLLECTION", "todos"),
		Server: Server{
			Port:     port,
			GraphiQL: graphiql,
		},
		Postgres: Postgres{
			Host:        getEnv("BLUEPRINT_DB_HOST", "localhost"),
			Port:        getEnv("BLUEPRINT_DB_PORT", "5432"),
			Username:    os.Getenv("BLUEPRINT_DB_USERNAME"),
			Password:    os.Getenv("BLUEPRINT_DB_PASSWORD"),
			Database:    getEnv("BLUEPRINT_DB_DATABASE", "todo-app"),
			Schema:      os.Getenv("BLUEPRINT_DB_SCHEMA"),
			AutoMigrate: autoMigrate,
		},
		Mongo: Mongo{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "todo-app"),
		},
	}

	switch cfg.Driver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Driver)
	}

	return cfg, nil
}

// DSN renders a postgres:// URL for pgx with every component escaped.
func (p Postgres) DSN() string {
	q := url.Values{}
	q.Set("sslmode", "disable")
	if p.Schema != "" {
		q.Set("search_path", p.Schema)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.Username, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, raw)
	}
	return v, nil
}
