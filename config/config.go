package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/luca-patrignani/tickerchain/ledger"
	"github.com/luca-patrignani/tickerchain/ticker"
)

type Config struct {
	Ticker TickerConfig
	Chain  ChainConfig
	Log    LogConfig
	Output string // text|json
}

type TickerConfig struct {
	URL     string
	Timeout time.Duration
}

type ChainConfig struct {
	Difficulty  int
	MaxAttempts uint64
	Seal        bool
}

type LogConfig struct {
	Level string // debug|info|warn|error
}

func Default() Config {
	return Config{
		Ticker: TickerConfig{
			URL:     ticker.DefaultURL,
			Timeout: 10 * time.Second,
		},
		Chain: ChainConfig{
			Difficulty:  ledger.DefaultDifficulty,
			MaxAttempts: 0,
			Seal:        false,
		},
		Log: LogConfig{
			Level: "info",
		},
		Output: "text",
	}
}

// Parse reads flags from args, falling back to TICKERCHAIN_* environment
// variables and then to Default.
func Parse(args []string, output io.Writer) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("tickerchain", flag.ContinueOnError)
	fs.SetOutput(output)

	var env envReader
	var (
		url         = fs.String("ticker.url", env.getString("TICKERCHAIN_TICKER_URL", cfg.Ticker.URL), "Ticker endpoint URL")
		timeout     = fs.Duration("ticker.timeout", env.getDuration("TICKERCHAIN_TICKER_TIMEOUT", cfg.Ticker.Timeout), "Ticker fetch timeout (0 disables)")
		difficulty  = fs.Int("chain.difficulty", env.getInt("TICKERCHAIN_DIFFICULTY", cfg.Chain.Difficulty), "Leading '0' characters required in every block hash")
		maxAttempts = fs.Uint64("chain.maxAttempts", env.getUint("TICKERCHAIN_MAX_ATTEMPTS", cfg.Chain.MaxAttempts), "Proof-of-work attempts per block before giving up (0 = unbounded)")
		seal        = fs.Bool("chain.seal", env.getBool("TICKERCHAIN_SEAL", cfg.Chain.Seal), "Seal every mined block with a Schnorr signature")
		logLevel    = fs.String("log.level", env.getString("TICKERCHAIN_LOG_LEVEL", cfg.Log.Level), "Log level: debug|info|warn|error")
		outFormat   = fs.String("output", env.getString("TICKERCHAIN_OUTPUT", cfg.Output), "Output format: text|json")
	)

	if err := env.err(); err != nil {
		return Config{}, err
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Ticker.URL = strings.TrimSpace(*url)
	cfg.Ticker.Timeout = *timeout
	cfg.Chain.Difficulty = *difficulty
	cfg.Chain.MaxAttempts = *maxAttempts
	cfg.Chain.Seal = *seal
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(*logLevel))
	cfg.Output = strings.ToLower(strings.TrimSpace(*outFormat))

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Ticker.URL == "" {
		return errors.New("ticker.url must not be empty")
	}
	if cfg.Ticker.Timeout < 0 {
		return fmt.Errorf("ticker.timeout must not be negative: %s", cfg.Ticker.Timeout)
	}
	if cfg.Chain.Difficulty < 0 || cfg.Chain.Difficulty > ledger.HashLength {
		return fmt.Errorf("chain.difficulty out of range [0, %d]: %d", ledger.HashLength, cfg.Chain.Difficulty)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", cfg.Log.Level)
	}

	switch cfg.Output {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output: %q", cfg.Output)
	}
	return nil
}

// envReader reads TICKERCHAIN_* variables and remembers every value that
// does not parse, so a typo never silently falls back to the default.
type envReader struct {
	errs []error
}

func (e *envReader) err() error {
	return errors.Join(e.errs...)
}

func (e *envReader) fail(key, value string, err error) {
	e.errs = append(e.errs, fmt.Errorf("invalid %s %q: %w", key, value, err))
}

func (e *envReader) getString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func (e *envReader) getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return n
}

func (e *envReader) getUint(key string, def uint64) uint64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return n
}

func (e *envReader) getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return d
}

func (e *envReader) getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		e.fail(key, v, errors.New("not a boolean"))
		return def
	}
}
