package storydeck

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	if err = toml.NewDecoder(file).DisallowUnknownFields().Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyEnv()

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		DB: DBConfig{
			Host:         "localhost",
			Port:         5432,
			User:         "postgres",
			Database:     "storydeck",
			PoolSize:     20,
			MaxIdleConns: 5,
			MaxLifetime:  Duration(30 * time.Minute),
		},
		Mongo: MongoConfig{Database: "storydeck"},
		Store: StoreConfig{Driver: DriverPostgres},
		Web: WebConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Environment: "development",
		},
		Market: MarketConfig{
			TxTimeout:    Duration(10 * time.Second),
			MaxTxRetries: 5,
		},
	}
}

type Config struct {
	Log     LogConfig     `toml:"log"`
	DB      DBConfig      `toml:"db"`
	Mongo   MongoConfig   `toml:"mongo"`
	Store   StoreConfig   `toml:"store"`
	Web     WebConfig     `toml:"web"`
	Catalog CatalogConfig `toml:"catalog"`
	Market  MarketConfig  `toml:"market"`
}

type LogConfig struct {
	Level     string `toml:"level"`
	Format    string `toml:"format"`
	AddSource bool   `toml:"add_source"`
}

type DBConfig struct {
	Host         string   `toml:"host"`
	Port         int      `toml:"port"`
	User         string   `toml:"user"`
	Password     string   `toml:"password"`
	Database     string   `toml:"database"`
	PoolSize     int      `toml:"pool_size"`
	MaxIdleConns int      `toml:"max_idle_conns"`
	MaxLifetime  Duration `toml:"max_lifetime"`
}

// DSN renders the connection string shared by the pgx pool and pgdriver.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

type StoreConfig struct {
	Driver string `toml:"driver"`
}

type WebConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	SessionKey     string   `toml:"session_key"`
	AllowedOrigins []string `toml:"allowed_origins"`
	Environment    string   `toml:"environment"`
}

func (c WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c WebConfig) IsProduction() bool {
	return c.Environment == "production"
}

// CatalogConfig points at the card dataset: a local JSON file, or an object
// in an S3 compatible bucket when Bucket is set.
type CatalogConfig struct {
	Path     string `toml:"path"`
	Bucket   string `toml:"bucket"`
	Key      string `toml:"key"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"`
	// AccessKey and Secret fall back to the default AWS credential chain when empty.
	AccessKey string `toml:"access_key"`
	Secret    string `toml:"secret"`
}

type MarketConfig struct {
	TxTimeout    Duration `toml:"tx_timeout"`
	MaxTxRetries int      `toml:"max_tx_retries"`
}

// Duration reads TOML strings such as "10s" or "30m".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("STORYDECK_DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("STORYDECK_SESSION_KEY"); v != "" {
		c.Web.SessionKey = v
	}
	if v := os.Getenv("STORYDECK_MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case DriverPostgres:
		if c.DB.Host == "" {
			errs = append(errs, errors.New("db.host is required for the postgres store"))
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("mongo.uri is required for the mongo store"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("store.driver %q is not one of postgres, mongo, memory", c.Store.Driver))
	}
	if c.Web.SessionKey == "" {
		errs = append(errs, errors.New("web.session_key is required"))
	}
	if c.Market.MaxTxRetries < 0 {
		errs = append(errs, errors.New("market.max_tx_retries must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
