package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env     string        `yaml:"env" env-default:"local"`
	API     APIConfig     `yaml:"api"`
	Prefs   PrefsConfig   `yaml:"prefs"`
	Uploads UploadsConfig `yaml:"uploads"`
	Debug   DebugConfig   `yaml:"debug"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"FOLIO_API_BASE_URL" env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env-default:"15s"`
}

// PrefsConfig selects the durable client storage holding the admin token
// and the display-language preference.
type PrefsConfig struct {
	Backend string      `yaml:"backend" env-default:"file"`
	Path    string      `yaml:"path" env-default:".folio/prefs.json"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type UploadsConfig struct {
	MaxSize   int64 `yaml:"max_size" env-default:"5242880"`
	AllowWebP bool  `yaml:"allow_webp" env-default:"false"`
}

// DebugConfig gates the local diagnostics listener (/metrics, /healthz).
type DebugConfig struct {
	Enabled bool   `yaml:"enabled" env-default:"false"`
	Host    string `yaml:"host" env-default:"127.0.0.1"`
	Port    string `yaml:"port" env-default:"9090"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
