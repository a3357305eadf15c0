// README: Smoke and load runner for a deployed voyage-api; executes HTTP/DB/Redis checks and prints results.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	bench := NewRunner(cfg)
	results := bench.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case statusPass:
			pass++
		case statusFail:
			fail++
		case statusSkip:
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

	if fail > 0 || (cfg.Strict && skipped > 0) {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL       string
	DSN           string
	RedisAddr     string
	MigrationPath string
	Destination   string
	Strict        bool
	Timeout       time.Duration
	Concurrency   int
	Duration      time.Duration
}

func loadConfig() Config {
	var cfg Config
	pflag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("VOYAGE_BENCH_BASE_URL", "http://localhost:8080"), "API base URL")
	pflag.StringVar(&cfg.DSN, "dsn", os.Getenv("VOYAGE_DB_DSN"), "Postgres DSN (empty skips DB checks)")
	pflag.StringVar(&cfg.RedisAddr, "redis", os.Getenv("VOYAGE_REDIS_ADDR"), "Redis address (empty skips Redis checks)")
	pflag.StringVar(&cfg.MigrationPath, "migration", "migrations/001_session_state.sql", "Migration SQL path")
	pflag.StringVar(&cfg.Destination, "destination", "Kyoto", "Destination used for plan requests")
	pflag.BoolVar(&cfg.Strict, "strict", false, "Fail when checks are skipped")
	pflag.DurationVar(&cfg.Timeout, "timeout", 3*time.Minute, "Total timeout")
	pflag.IntVar(&cfg.Concurrency, "concurrency", 8, "Concurrency for race and load checks")
	pflag.DurationVar(&cfg.Duration, "duration", 10*time.Second, "Duration of the load check")
	pflag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
