package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDatabaseDriver  = "mysql"
	defaultConnectAttempts = 5
	defaultConnectDelayMS  = 5000
	defaultMaxBodyBytes    = 1 << 20
	defaultAppPort         = "8080"
	defaultAppEnv          = "local"
	defaultMongoDB         = "products"
	defaultMongoCollection = "logs"
)

var (
	loadMu  sync.Mutex
	loaded  bool
	loadErr error

	mu     sync.RWMutex
	values = defaultValues()

	// Files read by Load. Tests point these somewhere else.
	JSONPath = "config/app.json"
	EnvPath  = ".env"
)

// Load merges defaults, config/app.json, .env and the process environment,
// in that order of increasing precedence. It runs once; later calls return
// the first result.
func Load() error {
	loadMu.Lock()
	defer loadMu.Unlock()

	if !loaded {
		loadErr = loadFrom(JSONPath, EnvPath)
		loaded = true
	}
	return loadErr
}

// Reset drops everything loaded so far. The next accessor call loads again.
func Reset() {
	loadMu.Lock()
	loaded = false
	loadErr = nil
	loadMu.Unlock()

	mu.Lock()
	values = defaultValues()
	mu.Unlock()
}

func defaultValues() map[string]string {
	return map[string]string{
		"DB_DRIVER":            defaultDatabaseDriver,
		"DATABASE_DSN":         "",
		"MYSQL_HOST":           "",
		"MYSQL_USER":           "",
		"MYSQL_PASSWORD":       "",
		"MYSQL_DATABASE":       "",
		"DB_CONNECT_ATTEMPTS":  strconv.Itoa(defaultConnectAttempts),
		"DB_CONNECT_DELAY_MS":  strconv.Itoa(defaultConnectDelayMS),
		"APP_PORT":             defaultAppPort,
		"APP_ENV":              defaultAppEnv,
		"VITE_API_URL":         "",
		"MAX_BODY_BYTES":       strconv.Itoa(defaultMaxBodyBytes),
		"LOG_MONGO_URI":        "",
		"LOG_MONGO_DB":         defaultMongoDB,
		"LOG_MONGO_COLLECTION": defaultMongoCollection,
	}
}

// ── Database ─────────────────────────────────────────────────────────────────

func DatabaseDriver() string {
	driver := strings.ToLower(Get("DB_DRIVER", defaultDatabaseDriver))
	switch driver {
	case "mysql", "postgres", "sqlite", "sqlserver":
		return driver
	default:
		return defaultDatabaseDriver
	}
}

// DatabaseDSN returns DATABASE_DSN when set. Otherwise the caller builds a
// MySQL DSN from the four MYSQL_* values, see database.FromConfig.
func DatabaseDSN() string { return Get("DATABASE_DSN", "") }

// The MYSQL_* values are passed through untouched. An empty one surfaces as
// a connection error from the driver.
func MySQLHost() string     { return raw("MYSQL_HOST") }
func MySQLUser() string     { return raw("MYSQL_USER") }
func MySQLPassword() string { return raw("MYSQL_PASSWORD") }
func MySQLDatabase() string { return raw("MYSQL_DATABASE") }

func ConnectAttempts() int {
	return Int("DB_CONNECT_ATTEMPTS", defaultConnectAttempts)
}

func ConnectDelay() time.Duration {
	return time.Duration(Int("DB_CONNECT_DELAY_MS", defaultConnectDelayMS)) * time.Millisecond
}

// ── HTTP ─────────────────────────────────────────────────────────────────────

func AppPort() string { return Get("APP_PORT", defaultAppPort) }

func AppEnv() string { return Get("APP_ENV", defaultAppEnv) }

// IsProduction reports whether APP_ENV names a production deployment.
func IsProduction() bool {
	switch strings.ToLower(AppEnv()) {
	case "production", "prod":
		return true
	}
	return false
}

func MaxBodyBytes() int64 {
	n := Int("MAX_BODY_BYTES", defaultMaxBodyBytes)
	if n <= 0 {
		return defaultMaxBodyBytes
	}
	return int64(n)
}

// APIURL is the runtime value handed to the browser frontend through /env.js.
func APIURL() string { return Get("VITE_API_URL", "") }

// ── Logging ──────────────────────────────────────────────────────────────────

func LogMongoURI() string        { return Get("LOG_MONGO_URI", "") }
func LogMongoDB() string         { return Get("LOG_MONGO_DB", defaultMongoDB) }
func LogMongoCollection() string { return Get("LOG_MONGO_COLLECTION", defaultMongoCollection) }

// ── Generic access ───────────────────────────────────────────────────────────

// Get reads any config key by name with a fallback for empty values.
func Get(key, fallback string) string {
	_ = Load()

	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}
	return fallback
}

// Lookup reports the value of key and whether it is set to something non-empty.
// Its signature matches clientcfg.Lookup.
func Lookup(key string) (string, bool) {
	v := Get(key, "")
	return v, v != ""
}

// Int parses key as an integer, returning fallback when unset or malformed.
func Int(key string, fallback int) int {
	n, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

// Set overrides a single key in memory.
func Set(key, value string) {
	_ = Load()

	mu.Lock()
	values[strings.ToUpper(key)] = value
	mu.Unlock()
}

func raw(key string) string {
	_ = Load()

	mu.RLock()
	defer mu.RUnlock()
	return values[key]
}

// ── Loading ──────────────────────────────────────────────────────────────────

func loadFrom(jsonPath, envPath string) error {
	merged := defaultValues()

	if err := mergeJSONConfig(jsonPath, merged); err != nil && !os.IsNotExist(err) {
		return err
	}

	if err := mergeDotEnv(envPath, merged); err != nil && !os.IsNotExist(err) {
		return err
	}

	for key := range merged {
		if v, ok := os.LookupEnv(key); ok {
			merged[key] = v
		}
	}

	mu.Lock()
	values = merged
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		switch v := val.(type) {
		case string:
			out[k] = strings.TrimSpace(v)
		case float64:
			out[k] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, value := range env {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = value
	}
	return nil
}
