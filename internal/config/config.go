package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	Database   `yaml:"database"`
	HTTPServer `yaml:"http_server"`
}

type Database struct {
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"DB_PORT" env-default:"3306"`
	User            string        `yaml:"user" env:"DB_USER" env-default:"root"`
	Password        string        `yaml:"password" env:"DB_PASSWORD"`
	DBName          string        `yaml:"dbname" env:"DB_NAME" env-default:"gamestore_db"`
	DialTimeout     time.Duration `yaml:"dial_timeout" env:"DB_DIAL_TIMEOUT" env-default:"5s"`
	RetryInterval   time.Duration `yaml:"retry_interval" env:"DB_RETRY_INTERVAL" env-default:"5s"`
	HealthInterval  time.Duration `yaml:"health_interval" env:"DB_HEALTH_INTERVAL" env-default:"15s"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"5m"`
}

type HTTPServer struct {
	Port        int           `yaml:"port" env:"PORT" env-default:"5000"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	Cors        []string      `yaml:"cors" env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
	// RateLimit is requests per minute per client IP, 0 disables limiting.
	RateLimit int `yaml:"rate_limit" env:"RATE_LIMIT" env-default:"0"`
}

// Client configures the storefront and import tools that talk to the API.
type Client struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	APIURL  string        `yaml:"api_url" env:"API_URL" env-default:"http://localhost:5000/api"`
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"10s"`
	Locale  string        `yaml:"locale" env:"LOCALE" env-default:"en"`
}

// MustLoad reads the server configuration. The -config flag points at an
// optional yaml file; environment variables always take precedence.
func MustLoad() *Config {
	configPath := flag.String("config", "", "path to config yaml file")
	flag.Parse()

	cfg, err := Load(*configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config
	if err := read(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func LoadClient(path string) (*Client, error) {
	const op = "config.LoadClient"

	var cfg Client
	if err := read(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func read(path string, cfg any) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		return cleanenv.ReadEnv(cfg)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", path)
	}

	return cleanenv.ReadConfig(path, cfg)
}

func (cfg *HTTPServer) Address() string {
	return ":" + strconv.Itoa(cfg.Port)
}

func (cfg *Database) GetDSN() string {
	dsn := mysql.NewConfig()
	dsn.User = cfg.User
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dsn.DBName = cfg.DBName
	dsn.ParseTime = true
	dsn.Loc = time.UTC
	dsn.Timeout = cfg.DialTimeout
	// affected rows must count matched rows, otherwise a no-op update reads as "not found"
	dsn.ClientFoundRows = true
	dsn.Params = map[string]string{"charset": "utf8mb4"}

	return dsn.FormatDSN()
}
