package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// DefaultSymbolKey is the entry used when a symbol has no dedicated settings.
const DefaultSymbolKey = "DEFAULT"

// SymbolConfig holds indicator parameters and RSI thresholds for one symbol.
type SymbolConfig struct {
	RSIOversold   float64 `yaml:"rsi_oversold"`
	RSIOverbought float64 `yaml:"rsi_overbought"`
	RSIPeriod     int     `yaml:"rsi_period"`
	MACDFast      int     `yaml:"macd_fast"`
	MACDSlow      int     `yaml:"macd_slow"`
	MACDSignal    int     `yaml:"macd_signal"`
	StochK        int     `yaml:"stoch_k"`
	StochD        int     `yaml:"stoch_d"`
	BBPeriod      int     `yaml:"bb_period"`
	BBStd         float64 `yaml:"bb_std"`
	EMAFast       int     `yaml:"ema_fast"`
	EMASlow       int     `yaml:"ema_slow"`
}

// Config holds all application configuration
type Config struct {
	Symbols              []string                `yaml:"symbols"`
	Timeframes           []string                `yaml:"timeframes"`
	CheckIntervalMinutes int                     `yaml:"check_interval_minutes"`
	CandleLimit          int                     `yaml:"candle_limit"`
	CandleLookback       int                     `yaml:"candle_lookback"` // 0 keeps every candle pattern
	SymbolConfigs        map[string]SymbolConfig `yaml:"symbol_configs"`

	TelegramBotToken string `yaml:"telegram_bot_token"`
	TelegramChatID   int64  `yaml:"telegram_chat_id"`

	DataSource       string `yaml:"data_source"` // binance or twelvedata
	BinanceAPIKey    string `yaml:"binance_api_key"`
	BinanceSecretKey string `yaml:"binance_secret_key"`
	TwelveDataAPIKey string `yaml:"twelvedata_api_key"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	CacheTTL      int    `yaml:"cache_ttl"` // seconds

	DatabaseDriver string `yaml:"database_driver"` // postgres, sqlite or empty
	DatabaseURL    string `yaml:"database_url"`

	LogLevel       string `yaml:"log_level"`
	RequestTimeout int    `yaml:"request_timeout"` // seconds
	RequestsPerSec int    `yaml:"requests_per_sec"`
}

// Defaults returns the built-in watch list and per-symbol settings.
func Defaults() *Config {
	standard := SymbolConfig{
		RSIOversold: 30, RSIOverbought: 70, RSIPeriod: 14,
		MACDFast: 12, MACDSlow: 26, MACDSignal: 9,
		StochK: 14, StochD: 3, BBPeriod: 20, BBStd: 2,
		EMAFast: 9, EMASlow: 21,
	}
	with := func(oversold, overbought float64, fast, slow, signal int) SymbolConfig {
		sc := standard
		sc.RSIOversold, sc.RSIOverbought = oversold, overbought
		sc.MACDFast, sc.MACDSlow, sc.MACDSignal = fast, slow, signal
		return sc
	}

	return &Config{
		Symbols:              []string{"BTCUSDT", "ETHUSDT", "BNBUSDT", "ADAUSDT", "SOLUSDT"},
		Timeframes:           []string{"1h", "4h", "1d"},
		CheckIntervalMinutes: 15,
		CandleLimit:          100,
		SymbolConfigs: map[string]SymbolConfig{
			"BTCUSDT":        with(30, 70, 12, 26, 9),
			"ETHUSDT":        with(25, 75, 10, 25, 8),
			"BNBUSDT":        with(28, 72, 12, 26, 9),
			"ADAUSDT":        with(25, 75, 10, 25, 8),
			"SOLUSDT":        with(28, 72, 12, 26, 9),
			DefaultSymbolKey: standard,
		},
		DataSource:     "binance",
		CacheTTL:       60,
		LogLevel:       "info",
		RequestTimeout: 30,
		RequestsPerSec: 5,
	}
}

// Load builds the configuration from defaults, an optional YAML file at path,
// and environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.Symbols = getEnvListWithDefault("SYMBOLS", cfg.Symbols)
	cfg.Timeframes = getEnvListWithDefault("TIMEFRAMES", cfg.Timeframes)
	cfg.CheckIntervalMinutes = getEnvIntWithDefault("CHECK_INTERVAL_MINUTES", cfg.CheckIntervalMinutes)
	cfg.CandleLimit = getEnvIntWithDefault("CANDLE_LIMIT", cfg.CandleLimit)
	cfg.CandleLookback = getEnvIntWithDefault("CANDLE_LOOKBACK", cfg.CandleLookback)
	cfg.TelegramBotToken = getEnvWithDefault("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	cfg.TelegramChatID = int64(getEnvIntWithDefault("TELEGRAM_CHAT_ID", int(cfg.TelegramChatID)))
	cfg.DataSource = getEnvWithDefault("DATA_SOURCE", cfg.DataSource)
	cfg.BinanceAPIKey = getEnvWithDefault("BINANCE_API_KEY", cfg.BinanceAPIKey)
	cfg.BinanceSecretKey = getEnvWithDefault("BINANCE_SECRET_KEY", cfg.BinanceSecretKey)
	cfg.TwelveDataAPIKey = getEnvWithDefault("TWELVEDATA_API_KEY", cfg.TwelveDataAPIKey)
	cfg.RedisAddr = getEnvWithDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnvWithDefault("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvIntWithDefault("REDIS_DB", cfg.RedisDB)
	cfg.CacheTTL = getEnvIntWithDefault("CACHE_TTL", cfg.CacheTTL)
	cfg.DatabaseDriver = getEnvWithDefault("DATABASE_DRIVER", cfg.DatabaseDriver)
	cfg.DatabaseURL = getEnvWithDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", cfg.RequestsPerSec)

	cfg.fillSymbolDefaults()
	return cfg, nil
}

// ForSymbol returns the settings for symbol, falling back to the DEFAULT entry.
func (c *Config) ForSymbol(symbol string) SymbolConfig {
	if sc, ok := c.SymbolConfigs[symbol]; ok {
		return sc
	}
	return c.SymbolConfigs[DefaultSymbolKey]
}

// fillSymbolDefaults completes partially specified symbol entries from DEFAULT.
func (c *Config) fillSymbolDefaults() {
	if c.SymbolConfigs == nil {
		c.SymbolConfigs = map[string]SymbolConfig{}
	}
	base, ok := c.SymbolConfigs[DefaultSymbolKey]
	if !ok {
		base = Defaults().SymbolConfigs[DefaultSymbolKey]
	}
	base = merge(base, Defaults().SymbolConfigs[DefaultSymbolKey])
	c.SymbolConfigs[DefaultSymbolKey] = base
	for name, sc := range c.SymbolConfigs {
		c.SymbolConfigs[name] = merge(sc, base)
	}
}

func merge(sc, base SymbolConfig) SymbolConfig {
	if sc.RSIOversold == 0 {
		sc.RSIOversold = base.RSIOversold
	}
	if sc.RSIOverbought == 0 {
		sc.RSIOverbought = base.RSIOverbought
	}
	if sc.RSIPeriod == 0 {
		sc.RSIPeriod = base.RSIPeriod
	}
	if sc.MACDFast == 0 {
		sc.MACDFast = base.MACDFast
	}
	if sc.MACDSlow == 0 {
		sc.MACDSlow = base.MACDSlow
	}
	if sc.MACDSignal == 0 {
		sc.MACDSignal = base.MACDSignal
	}
	if sc.StochK == 0 {
		sc.StochK = base.StochK
	}
	if sc.StochD == 0 {
		sc.StochD = base.StochD
	}
	if sc.BBPeriod == 0 {
		sc.BBPeriod = base.BBPeriod
	}
	if sc.BBStd == 0 {
		sc.BBStd = base.BBStd
	}
	if sc.EMAFast == 0 {
		sc.EMAFast = base.EMAFast
	}
	if sc.EMASlow == 0 {
		sc.EMASlow = base.EMASlow
	}
	return sc
}

// Validate checks that the watch list and schedule are usable.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return errors.New("at least one symbol is required")
	}
	if len(c.Timeframes) == 0 {
		return errors.New("at least one timeframe is required")
	}
	if c.CheckIntervalMinutes <= 0 {
		return errors.New("check_interval_minutes must be positive")
	}
	if c.CandleLimit <= 0 {
		return errors.New("candle_limit must be positive")
	}
	for name, sc := range c.SymbolConfigs {
		if sc.RSIOversold >= sc.RSIOverbought {
			return fmt.Errorf("symbol %s: rsi_oversold must be below rsi_overbought", name)
		}
		if sc.MACDFast >= sc.MACDSlow {
			return fmt.Errorf("symbol %s: macd_fast must be below macd_slow", name)
		}
		if sc.EMAFast >= sc.EMASlow {
			return fmt.Errorf("symbol %s: ema_fast must be below ema_slow", name)
		}
	}
	switch c.DataSource {
	case "binance":
	case "twelvedata":
		if c.TwelveDataAPIKey == "" {
			return errors.New("twelvedata_api_key is required for the twelvedata source")
		}
	default:
		return fmt.Errorf("unsupported data_source %q", c.DataSource)
	}
	switch c.DatabaseDriver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database_driver %q", c.DatabaseDriver)
	}
	return nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvListWithDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
