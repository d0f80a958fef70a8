package config

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// AppConfig holds global application configuration used by the server shell.
// The sync engine never reads this directly; it receives a *Config at
// construction so its behaviour is fully determined by explicit inputs.
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName string
	Port    string
	Env     string
	Debug   bool

	// DatetimeFormat is the textual timestamp layout used by the remote
	// store for purchase_time values.
	DatetimeFormat string

	// Outbound HTTP behaviour towards the remote store.
	HTTPTimeout time.Duration
	VerifyTLS   bool
	UseHTTPS    bool

	// Endpoint paths on the remote store.
	PurchasesEndpoint  string
	BulkUpdateEndpoint string
	StoreResetEndpoint string

	// Defaults used when no connection settings row exists yet.
	DefaultStoreName  string
	DefaultStoreIPv4  string
	DefaultStorePort  int
	DefaultStoreToken string

	// Schedule for the periodic sync cron job.
	SyncSchedule string

	MediaDir string
}

// NewConfig builds a Config from the environment with the same defaults the
// original deployment used.
func NewConfig() *Config {
	return &Config{
		AppName: envOr("APP_NAME", "MallDepot"),
		Port:    envOr("PORT", "8080"),
		Env:     os.Getenv("APP_ENV"),
		Debug:   os.Getenv("DEBUG") == "true",

		DatetimeFormat: envOr("DATETIME_FORMAT", "2006-01-02 15:04:05.000000"),

		HTTPTimeout: time.Duration(envIntOr("STORE_HTTP_TIMEOUT_SECONDS", 10)) * time.Second,
		VerifyTLS:   os.Getenv("STORE_VERIFY_TLS") == "true",
		UseHTTPS:    os.Getenv("STORE_USE_HTTPS") == "true",

		PurchasesEndpoint:  envOr("GET_PURCHASES_ENDPOINT", "api/purchases"),
		BulkUpdateEndpoint: envOr("BULK_UPDATE_ENDPOINT", "api/bulk_update"),
		StoreResetEndpoint: envOr("STORE_RESET_ENDPOINT", "api/items/delete_all"),

		DefaultStoreName:  envOr("DEFAULT_STORE_NAME", "Generic Storefront Webshop"),
		DefaultStoreIPv4:  envOr("DEFAULT_STORE_IPV4", "127.0.0.1"),
		DefaultStorePort:  envIntOr("DEFAULT_STORE_PORT", 5050),
		DefaultStoreToken: os.Getenv("DEFAULT_STORE_TOKEN"),

		SyncSchedule: envOr("SYNC_SCHEDULE", "@every 15m"),

		MediaDir: envOr("MEDIA_DIR", "media"),
	}
}

// LoadAppConfig initializes the global AppConfig variable.
func LoadAppConfig() {
	once.Do(func() {
		AppConfig = NewConfig()
	})
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
