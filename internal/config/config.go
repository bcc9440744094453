package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config holds all settings of the contact book. Every value comes from the environment, an
// optional .env file in the working directory is read first.
//
// Usage example on the command line:
// > PORT=8080 DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run ./cmd/service
type Config struct {
	Port int `envconfig:"PORT" default:"8080"`

	DBDriver string `envconfig:"DBDRIVER" default:"mysql"`
	DBHost   string `envconfig:"DBHOST" default:"localhost:3306"`
	DBUser   string `envconfig:"DBUSER"`
	DBPwd    string `envconfig:"DBPWD"`
	DBName   string `envconfig:"DBNAME" default:"contactbook"`
	DBPath   string `envconfig:"DBPATH" default:"contactbook.db"`

	SessionSecret string        `envconfig:"SESSION_SECRET" default:"cmps369"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	SessionStore  string        `envconfig:"SESSION_STORE" default:"memory"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	BcryptCost int `envconfig:"BCRYPT_COST" default:"10"`

	GeocoderProvider  string `envconfig:"GEOCODER_PROVIDER" default:"nominatim"`
	GeocoderURL       string `envconfig:"GEOCODER_URL" default:"https://nominatim.openstreetmap.org"`
	GeocoderUserAgent string `envconfig:"GEOCODER_USER_AGENT" default:"contact-book/1.0"`
	// The static geocoder places every address at this point.
	GeocoderStaticLat float64 `envconfig:"GEOCODER_STATIC_LAT" default:"0"`
	GeocoderStaticLon float64 `envconfig:"GEOCODER_STATIC_LON" default:"0"`

	DefaultUsername string `envconfig:"DEFAULT_USERNAME" default:"cmps369"`
	DefaultPassword string `envconfig:"DEFAULT_PASSWORD" default:"rcnj"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`

	GinLogging string `envconfig:"GIN_LOGGING"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var c Config
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return c, errors.Wrap(err, "read .env file")
	}
	if err := envconfig.Process("", &c); err != nil {
		return c, errors.Wrap(err, "process environment")
	}
	if err := c.validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case "mysql", "sqlite":
	default:
		return errors.Errorf("unsupported DBDRIVER %q", c.DBDriver)
	}
	switch c.SessionStore {
	case "memory", "redis":
	default:
		return errors.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}
	switch c.GeocoderProvider {
	case "nominatim", "static":
	default:
		return errors.Errorf("unsupported GEOCODER_PROVIDER %q", c.GeocoderProvider)
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("invalid PORT %d", c.Port)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// MySQLDSN builds the data source name for the MySQL driver.
func (c Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", c.DBUser, c.DBPwd, c.DBHost, c.DBName)
}
