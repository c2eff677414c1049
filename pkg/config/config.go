package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/user/property-scraper/internal/entity"
)

// CategoryConfig carries the per-category URL root and selector set. The two
// categories are served from different site sections with different markup,
// so each gets its own selectors.
type CategoryConfig struct {
	BaseURL     string
	ListingPath string
	// CardSelector matches the anchor of each property card on a listing page.
	CardSelector string
	// PaginationSelector is a format string taking the target page number.
	PaginationSelector string
	// ScrollFirst triggers a scroll-to-bottom pass before reading the listing
	// page, for sections that lazy-load their cards.
	ScrollFirst bool
}

// ListingURL returns the absolute listing-root URL for the category.
func (c CategoryConfig) ListingURL() string {
	return c.BaseURL + c.ListingPath
}

// Config holds the application configuration.
type Config struct {
	ServerPort string
	LogLevel   string

	CompetitorName string

	MaxRetries           int
	BackoffBase          time.Duration
	RateLimitDelay       time.Duration
	PageDelay            time.Duration
	PageLoadTimeout      time.Duration
	ElementTimeout       time.Duration
	MaxPropertiesDefault int
	MaxPagesDefault      int
	Headless             bool
	StealthMode          bool
	UserAgent            string

	// USDRate converts IDR prices on pages that only publish IDR.
	USDRate float64

	SheetID          string
	SheetCredentials string
	SheetName        string
	CombinedSheet    string

	PostgresURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	VisitedTTL    time.Duration

	Categories map[entity.Category]CategoryConfig
}

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Load loads configuration from a .env file (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		CompetitorName: getEnv("COMPETITOR_NAME", "Bali Exception"),

		MaxRetries:           getEnvAsInt("MAX_RETRIES", 3),
		BackoffBase:          getEnvAsDuration("BACKOFF_BASE_SECONDS", 2),
		RateLimitDelay:       getEnvAsDuration("RATE_LIMIT_SECONDS", 2),
		PageDelay:            getEnvAsDuration("PAGE_DELAY_SECONDS", 3),
		PageLoadTimeout:      getEnvAsDuration("PAGE_LOAD_TIMEOUT_SECONDS", 60),
		ElementTimeout:       getEnvAsDuration("ELEMENT_TIMEOUT_SECONDS", 15),
		MaxPropertiesDefault: getEnvAsInt("MAX_PROPERTIES_DEFAULT", 50),
		MaxPagesDefault:      getEnvAsInt("MAX_PAGES_DEFAULT", 0),
		Headless:             getEnvAsBool("HEADLESS_MODE", true),
		StealthMode:          getEnvAsBool("STEALTH_MODE", true),
		UserAgent:            getEnv("USER_AGENT", defaultUserAgent),

		USDRate: getEnvAsFloat("IDR_USD_RATE", 16350),

		SheetID:          getEnv("GOOGLE_SHEET_ID", ""),
		SheetCredentials: getEnv("GOOGLE_SHEETS_CREDENTIALS_FILE", ""),
		SheetName:        getEnv("SHEET_NAME", "Bali_Exception"),
		CombinedSheet:    getEnv("COMBINED_SHEET_NAME", "All_Competitors"),

		PostgresURL:   getEnv("POSTGRES_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		VisitedTTL:    time.Duration(getEnvAsInt("VISITED_TTL_HOURS", 48)) * time.Hour,

		Categories: map[entity.Category]CategoryConfig{
			entity.CategoryForSale: {
				BaseURL:            getEnv("FOR_SALE_BASE_URL", "https://baliexception.com"),
				ListingPath:        getEnv("FOR_SALE_LISTING_PATH", "/properties"),
				CardSelector:       getEnv("FOR_SALE_CARD_SELECTOR", "h2.brxe-gzgohv.brxe-heading.propertyCard__title a"),
				PaginationSelector: getEnv("PAGINATION_SELECTOR", `.jet-filters-pagination__item[data-value="%d"]`),
			},
			entity.CategoryForRent: {
				BaseURL:            getEnv("FOR_RENT_BASE_URL", "https://villas.baliexception.com"),
				ListingPath:        getEnv("FOR_RENT_LISTING_PATH", "/find-rental/"),
				CardSelector:       getEnv("FOR_RENT_CARD_SELECTOR", "div.brxe-tdjmvf a"),
				PaginationSelector: getEnv("PAGINATION_SELECTOR", `.jet-filters-pagination__item[data-value="%d"]`),
				ScrollFirst:        true,
			},
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * time.Second
}
