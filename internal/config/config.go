package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time‑to‑live in minutes
    RefreshTTLDays int    // refresh token time‑to‑live in days
    BcryptCost     int    // bcrypt cost for password hashing

    LockMinutes            int    // seat soft-lock duration in minutes
    CleanupIntervalMinutes int    // reaper sweep interval in minutes
    CancelGraceMinutes     int    // minutes before showtime a CONFIRMED booking may still be cancelled
    MaxPaymentRetries      int    // payment coordinator retry budget for gateway timeouts
    PaymentRetryBackoffSec int    // base backoff in seconds between payment retries
    PaymentSandbox         bool   // when true, use the sandbox gateway instead of Stripe
    StripeSecretKey        string // Stripe API secret key (unused when PaymentSandbox is true)
    StripeCurrency         string // ISO currency code for Stripe payment intents
    CacheTTLSec            int    // query surface cache entry TTL in seconds
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),             // environment (dev/test/prod)
        Port:           must("APP_PORT"),            // port to bind the HTTP server
        DBUser:         must("DB_USER"),             // database user
        DBPass:         os.Getenv("DB_PASS"),        // database password (empty allowed)
        DBHost:         must("DB_HOST"),             // database host
        DBPort:         must("DB_PORT"),             // database port
        DBName:         must("DB_NAME"),             // database name
        JWTSecret:      must("JWT_SECRET"),          // secret used for signing JWTs
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
        BcryptCost:     mustInt("BCRYPT_COST"),      // bcrypt cost factor

        LockMinutes:            intOrDefault("LOCK_DURATION_MINUTES", 15),
        CleanupIntervalMinutes: intOrDefault("CLEANUP_INTERVAL_MINUTES", 5),
        CancelGraceMinutes:     intOrDefault("CANCEL_GRACE_MINUTES", 60),
        MaxPaymentRetries:      intOrDefault("MAX_PAYMENT_RETRIES", 3),
        PaymentRetryBackoffSec: intOrDefault("PAYMENT_RETRY_BACKOFF_SEC", 2),
        PaymentSandbox:         boolOrDefault("PAYMENT_SANDBOX_MODE", true),
        StripeSecretKey:        os.Getenv("STRIPE_SECRET_KEY"),
        StripeCurrency:         stringOrDefault("STRIPE_CURRENCY", "usd"),
        CacheTTLSec:            intOrDefault("QUERY_CACHE_TTL_SEC", 30),
    }
}

// intOrDefault reads an optional integer env var, falling back to def when
// unset or unparsable. Unlike mustInt, a bad value here does not halt the
// application: these settings all have safe operational defaults.
func intOrDefault(key string, def int) int {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        return def
    }
    return n
}

func boolOrDefault(key string, def bool) bool {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        return def
    }
    b, err := strconv.ParseBool(v)
    if err != nil {
        return def
    }
    return b
}

func stringOrDefault(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
