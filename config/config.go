package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/SanderBuruma/solana-research/internal/domain"
)

// Config es la configuración completa de la herramienta.
type Config struct {
	API     APIConfig        `yaml:"api"`
	Fees    domain.FeeConfig `yaml:"fees"`
	Cache   CacheConfig      `yaml:"cache"`
	Reports ReportsConfig    `yaml:"reports"`
	Storage StorageConfig    `yaml:"storage"`
	Log     LogConfig        `yaml:"log"`
}

// APIConfig contiene el base URL del indexador y el proxy opcional.
type APIConfig struct {
	BaseURL      string `yaml:"base_url"`
	ProxyURL     string `yaml:"proxy_url"`
	ProxyEnabled bool   `yaml:"proxy_enabled"`
}

// CacheConfig controla dónde viven los CSV de actividad por wallet.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// ReportsConfig controla dónde se escriben los informes CSV.
type ReportsConfig struct {
	Dir string `yaml:"dir"`
}

// StorageConfig controla la base de datos del histórico de ejecuciones.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si
// existe. El YAML es opcional (la herramienta funciona con defaults); las
// variables de entorno sobreescriben ambos.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	case os.IsNotExist(err):
		// sin archivo: solo defaults + entorno
	default:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("SOLSCAN_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("PROXY_URL"); v != "" {
		cfg.API.ProxyURL = v
	}
	if v := os.Getenv("PROXY_ENABLED"); v != "" {
		cfg.API.ProxyEnabled = v == "True" || v == "true" || v == "1"
	}
	overrideFloat := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}
	overrideFloat("BUY_FIXED_FEE", &cfg.Fees.BuyFixed)
	overrideFloat("BUY_PERCENT_FEE", &cfg.Fees.BuyPercent)
	overrideFloat("SELL_FIXED_FEE", &cfg.Fees.SellFixed)
	overrideFloat("SELL_PERCENT_FEE", &cfg.Fees.SellPercent)
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api-v2.solscan.io/v2"
	}
	def := domain.DefaultFeeConfig()
	if cfg.Fees.BuyFixed <= 0 {
		cfg.Fees.BuyFixed = def.BuyFixed
	}
	if cfg.Fees.BuyPercent <= 0 {
		cfg.Fees.BuyPercent = def.BuyPercent
	}
	if cfg.Fees.SellFixed <= 0 {
		cfg.Fees.SellFixed = def.SellFixed
	}
	if cfg.Fees.SellPercent <= 0 {
		cfg.Fees.SellPercent = def.SellPercent
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = "dex_activity"
	}
	if cfg.Reports.Dir == "" {
		cfg.Reports.Dir = "reports"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "solres.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
