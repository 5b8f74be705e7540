package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultAddr     = "127.0.0.1:8091"
	defaultCacheTTL = 5 * time.Minute
)

type Config struct {
	DBPath    string
	Addr      string
	RedisAddr string
	CacheTTL  time.Duration
	ReportDir string
}

func LoadConfig(args []string) (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("failed to get cwd: %w", err)
	}

	defaultDBPath := filepath.Join(cwd, "budgetlord.db")

	dbPath := envOrDefault("BUDGETLORD_DB_PATH", defaultDBPath)
	addr := envOrDefault("BUDGETLORD_ADDR", defaultAddr)
	redisAddr := os.Getenv("BUDGETLORD_REDIS_ADDR")
	reportDir := os.Getenv("BUDGETLORD_REPORT_DIR")
	cacheTTL := defaultCacheTTL
	if ttlEnv := os.Getenv("BUDGETLORD_CACHE_TTL"); ttlEnv != "" {
		parsed, err := time.ParseDuration(ttlEnv)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BUDGETLORD_CACHE_TTL: %w", err)
		}
		cacheTTL = parsed
	}

	flagSet := flag.NewFlagSet("budgetlord-d", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagDB := flagSet.String("db", dbPath, "path to SQLite database")
	flagAddr := flagSet.String("addr", addr, "HTTP listen address")
	flagRedis := flagSet.String("redis", redisAddr, "Redis address for the rollup cache (empty disables caching)")
	flagCacheTTL := flagSet.String("cache-ttl", cacheTTL.String(), "rollup cache entry TTL")
	flagReportDir := flagSet.String("report-dir", reportDir, "directory for archived reports (empty disables archiving)")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
			return Config{}, err
		}
		return Config{}, err
	}

	ttlParsed, err := time.ParseDuration(*flagCacheTTL)
	if err != nil {
		return Config{}, fmt.Errorf("invalid cache ttl: %w", err)
	}

	config := Config{
		DBPath:    resolvePath(*flagDB, cwd),
		Addr:      strings.TrimSpace(*flagAddr),
		RedisAddr: strings.TrimSpace(*flagRedis),
		CacheTTL:  ttlParsed,
		ReportDir: resolvePath(*flagReportDir, cwd),
	}

	if config.Addr == "" {
		return Config{}, errors.New("addr cannot be empty")
	}

	return config, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func resolvePath(path, cwd string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return path
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}
