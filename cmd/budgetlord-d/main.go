package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rmax-ai/budgetlord/pkg/api"
	"github.com/rmax-ai/budgetlord/pkg/engine"
	"github.com/rmax-ai/budgetlord/pkg/reports"
	"github.com/rmax-ai/budgetlord/pkg/store"
	redisstore "github.com/rmax-ai/budgetlord/pkg/store/redis"
)

func main() {
	fmt.Println(`{"level":"info","msg":"system_started","component":"budgetlord-d"}`)

	config, err := LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Printf(`{"level":"fatal","msg":"invalid_config","error":"%v"}`+"\n", err)
		os.Exit(1)
	}

	st, err := store.NewStore(config.DBPath)
	if err != nil {
		fmt.Printf(`{"level":"fatal","msg":"failed_to_init_store","error":"%v"}`+"\n", err)
		os.Exit(1)
	}
	fmt.Printf(`{"level":"info","msg":"store_initialized","path":"%s"}`+"\n", config.DBPath)

	categories := engine.NewCategoryService(st)
	if err := categories.Refresh(context.Background()); err != nil {
		fmt.Printf(`{"level":"fatal","msg":"failed_to_build_hierarchy","error":"%v"}`+"\n", err)
		os.Exit(1)
	}
	goals := engine.NewGoalService(st)

	server := api.NewServer(st, categories, goals, config.Addr)

	if config.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: config.RedisAddr})
		server.SetRollupCache(redisstore.NewRollupCache(client, config.CacheTTL))
		fmt.Printf(`{"level":"info","msg":"rollup_cache_enabled","addr":"%s"}`+"\n", config.RedisAddr)
	}

	if config.ReportDir != "" {
		server.SetReportArchive(reports.NewArchive(config.ReportDir))
		fmt.Printf(`{"level":"info","msg":"report_archive_enabled","dir":"%s"}`+"\n", config.ReportDir)
	}

	go func() {
		if err := server.Start(); err != nil {
			fmt.Printf(`{"level":"fatal","msg":"server_failed","error":"%v"}`+"\n", err)
			os.Exit(1)
		}
	}()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigs
	fmt.Printf(`{"level":"info","msg":"shutdown_initiated","signal":"%s"}`+"\n", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		fmt.Printf(`{"level":"error","msg":"failed_to_stop_server","error":"%v"}`+"\n", err)
	}

	if err := st.Close(); err != nil {
		fmt.Printf(`{"level":"error","msg":"failed_to_close_store","error":"%v"}`+"\n", err)
	} else {
		fmt.Println(`{"level":"info","msg":"store_closed"}`)
	}

	fmt.Println(`{"level":"info","msg":"shutdown_complete"}`)
}
