package shared

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/purslint/internal/ir"
)

type Config struct {
	Checks struct {
		MaxLineLength           int      `yaml:"maxLineLength"`           // 80
		IndentSize              int      `yaml:"indentSize"`              // 2
		NestedIndentSize        int      `yaml:"nestedIndentSize"`        // 4
		MaxArrowIndentThreshold int      `yaml:"maxArrowIndentThreshold"` // 10
		MaxMatcherBodyLines     int      `yaml:"maxMatcherBodyLines"`     // 3
		EnabledRuleCategories   []string `yaml:"enabledRuleCategories"`   // all five
		SeverityThreshold       string   `yaml:"severityThreshold"`       // "ADVISORY"
		DisabledRules           []string `yaml:"disabledRules"`
	} `yaml:"checks"`

	Imports struct {
		LocalPrefixes []string `yaml:"localPrefixes"` // default: module's own first segment
	} `yaml:"imports"`

	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./purslint.db"
	} `yaml:"database"`

	Reporting struct {
		OutDir string `yaml:"outDir"` // "./reports"
	} `yaml:"reporting"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`

	Engine struct {
		Workers   int    `yaml:"workers"`   // 0 = GOMAXPROCS
		CacheSize int    `yaml:"cacheSize"` // 256
		CacheTTL  string `yaml:"cacheTTL"`  // "5m"
	} `yaml:"engine"`

	Watch struct {
		DebounceMs int `yaml:"debounceMs"` // 250
	} `yaml:"watch"`
}

func DefaultConfig() Config {
	var c Config
	c.Checks.MaxLineLength = 80
	c.Checks.IndentSize = 2
	c.Checks.NestedIndentSize = 4
	c.Checks.MaxArrowIndentThreshold = 10
	c.Checks.MaxMatcherBodyLines = 3
	c.Checks.EnabledRuleCategories = ir.Categories()
	c.Checks.SeverityThreshold = ir.SeverityAdvisory
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./purslint.db"
	c.Reporting.OutDir = "./reports"
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	c.Engine.CacheSize = 256
	c.Engine.CacheTTL = "5m"
	c.Watch.DebounceMs = 250
	return c
}

// LoadConfig reads the YAML config at path (or $PURSLINT_CONFIG when path is
// empty), applies environment overrides, and validates. An explicitly named
// file that cannot be read is an error; no file at all means defaults.
// Decoding is strict: an unknown key fails with that key named.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()

	if path == "" {
		path = os.Getenv("PURSLINT_CONFIG")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return c, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Env overrides (simple, explicit)
	if v := os.Getenv("PURSLINT_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("PURSLINT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("PURSLINT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate fails fast on out-of-range or unknown values, naming the
// offending key and the rejected value.
func (c Config) Validate() error {
	if v := c.Checks.MaxLineLength; v < 1 || v > 1000 {
		return fmt.Errorf("config: maxLineLength %d out of range [1,1000]", v)
	}
	if v := c.Checks.IndentSize; v < 1 || v > 16 {
		return fmt.Errorf("config: indentSize %d out of range [1,16]", v)
	}
	if v := c.Checks.NestedIndentSize; v < 1 || v > 32 {
		return fmt.Errorf("config: nestedIndentSize %d out of range [1,32]", v)
	}
	if v := c.Checks.MaxArrowIndentThreshold; v < 0 || v > 200 {
		return fmt.Errorf("config: maxArrowIndentThreshold %d out of range [0,200]", v)
	}
	if v := c.Checks.MaxMatcherBodyLines; v < 1 || v > 1000 {
		return fmt.Errorf("config: maxMatcherBodyLines %d out of range [1,1000]", v)
	}
	switch c.Checks.SeverityThreshold {
	case ir.SeverityAdvisory, ir.SeverityWarning, ir.SeverityError:
	default:
		return fmt.Errorf("config: severityThreshold %q is not one of ADVISORY, WARNING, ERROR", c.Checks.SeverityThreshold)
	}
	for _, cat := range c.Checks.EnabledRuleCategories {
		if !knownCategory(cat) {
			return fmt.Errorf("config: enabledRuleCategories: unknown category %q", cat)
		}
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("config: logging.format %q is not json or text", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: logging.level %q is not debug, info, warn, or error", c.Logging.Level)
	}
	if v := c.Engine.Workers; v < 0 || v > 4096 {
		return fmt.Errorf("config: engine.workers %d out of range [0,4096]", v)
	}
	if v := c.Engine.CacheSize; v < 1 || v > 1<<20 {
		return fmt.Errorf("config: engine.cacheSize %d out of range [1,1048576]", v)
	}
	if _, err := time.ParseDuration(c.Engine.CacheTTL); err != nil {
		return fmt.Errorf("config: engine.cacheTTL %q: %w", c.Engine.CacheTTL, err)
	}
	if v := c.Watch.DebounceMs; v < 0 || v > 60000 {
		return fmt.Errorf("config: watch.debounceMs %d out of range [0,60000]", v)
	}
	return nil
}

// EngineCacheTTL returns the parsed engine cache TTL; Validate has already
// checked it.
func (c Config) EngineCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Engine.CacheTTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

func knownCategory(cat string) bool {
	for _, c := range ir.Categories() {
		if cat == c {
			return true
		}
	}
	return false
}
