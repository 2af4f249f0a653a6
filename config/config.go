package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatBoth = "both"
)

var (
	defaultPostalCodes = []string{
		"600119", "600130", "600100", "600096", "600131", "603112",
		"600129", "600115", "600113", "600102", "600097", "600091",
	}
	defaultQueryTemplates = []string{
		"gated communities in", "apartment complex in", "Condominium complex in",
		"Residents association in", "Multi-unit residential building in", "villas in",
		"Flats in", "Residential complex in",
	}
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MapsURL         string
	ChromeBin       string
	Headless        bool
	NavigateTimeout time.Duration
	SearchSettle    time.Duration
	ScrollSettle    time.Duration
	OpenSettle      time.Duration
	MaxResults      int

	OutputDir    string
	ExportFormat string
	H3Resolution int
	LogLevel     string

	PostalCodes    []string
	QueryTemplates []string
}

// SearchPlan is the optional YAML file listing what to search for.
type SearchPlan struct {
	PostalCodes    []string `yaml:"postal_codes"`
	QueryTemplates []string `yaml:"query_templates"`
}

// Load reads the .env file and returns a populated Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "communities_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MapsURL:         getEnv("MAPS_URL", "https://www.google.com/maps"),
		ChromeBin:       getEnv("CHROME_BIN", ""),
		Headless:        getEnvBool("HEADLESS", false),
		NavigateTimeout: getEnvDuration("NAVIGATE_TIMEOUT", 60*time.Second),
		SearchSettle:    getEnvDuration("SEARCH_SETTLE", 5*time.Second),
		ScrollSettle:    getEnvDuration("SCROLL_SETTLE", 3*time.Second),
		OpenSettle:      getEnvDuration("OPEN_SETTLE", 5*time.Second),
		MaxResults:      getEnvInt("MAX_RESULTS", 50),

		OutputDir:    getEnv("OUTPUT_DIR", "./output"),
		ExportFormat: strings.ToLower(getEnv("EXPORT_FORMAT", FormatCSV)),
		H3Resolution: getEnvInt("H3_RESOLUTION", 8),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),

		PostalCodes:    getEnvList("POSTAL_CODES", defaultPostalCodes),
		QueryTemplates: getEnvList("QUERY_TEMPLATES", defaultQueryTemplates),
	}

	if path := os.Getenv("SEARCH_PLAN_PATH"); path != "" {
		plan, err := LoadSearchPlan(path)
		if err != nil {
			return nil, err
		}
		if len(plan.PostalCodes) > 0 {
			cfg.PostalCodes = plan.PostalCodes
		}
		if len(plan.QueryTemplates) > 0 {
			cfg.QueryTemplates = plan.QueryTemplates
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadSearchPlan parses a YAML search plan file.
func LoadSearchPlan(path string) (*SearchPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read search plan %q: %w", path, err)
	}

	plan := &SearchPlan{}
	if err := yaml.Unmarshal(data, plan); err != nil {
		return nil, fmt.Errorf("config: parse search plan %q: %w", path, err)
	}
	return plan, nil
}

// Validate rejects configurations the scraper cannot run with.
func (c *Config) Validate() error {
	switch c.ExportFormat {
	case FormatCSV, FormatXLSX, FormatBoth:
	default:
		return fmt.Errorf("config: unknown EXPORT_FORMAT %q", c.ExportFormat)
	}
	if len(c.PostalCodes) == 0 {
		return fmt.Errorf("config: no postal codes to search")
	}
	if len(c.QueryTemplates) == 0 {
		return fmt.Errorf("config: no query templates to search")
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("config: MAX_RESULTS must be positive, got %d", c.MaxResults)
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("3s") or bare milliseconds ("3000").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(val); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}

	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
