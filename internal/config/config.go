package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	Database   `yaml:"database"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"./storage/views.db"`

	AdminLogin  string   `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass   string   `yaml:"admin_pass" env:"ADMIN_PASS"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`

	Reports `yaml:"reports"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Database struct {
	DBUser       string `yaml:"db_user" env:"DB_USER" env-required:"true"`
	DBPassword   string `yaml:"db_password" env:"DB_PASSWORD"`
	DBHost       string `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort       int    `yaml:"db_port" env:"DB_PORT" env-default:"3306"`
	DBName       string `yaml:"db_name" env:"DB_NAME" env-required:"true"`
	MaxOpenConns int    `yaml:"max_open_conns" env-default:"10"`
}

type Reports struct {
	DefaultLimit      int `yaml:"default_limit" env-default:"10"`
	ExportPageSize    int `yaml:"export_page_size" env-default:"500"`
	ExportConcurrency int `yaml:"export_concurrency" env-default:"4"`
}

const defaultPath = "./config/local.yaml"

// MustConfig reads the file named by CONFIG_PATH (or the local default) and
// applies environment overrides. It exits on any error.
func MustConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", path)
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
