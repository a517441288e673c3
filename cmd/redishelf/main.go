// Redishelf admin tool.
//
// Small operational companion for a redishelf deployment: brings up the
// secondary indexes, checks connectivity and inspects the cart id counter.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/redishelf/redishelf"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "indexes":
			runIndexes(os.Args[2:])
			return
		case "ping":
			runPing(os.Args[2:])
			return
		case "counter":
			runCounter(os.Args[2:])
			return
		case "help", "--help", "-h":
			printHelp()
			return
		}
	}

	printHelp()
	os.Exit(2)
}

func printHelp() {
	fmt.Println(`redishelf - bookstore persistence admin tool

Usage:
  redishelf indexes [flags]   Recreate the user, book and cart search indexes
  redishelf ping [flags]      Check Redis connectivity
  redishelf counter [flags]   Show the current cart id counter

Flags (all subcommands):
  --addr string  Redis address (default from REDIS_ADDR, else localhost:6379)

Connection settings also come from REDIS_ADDR, REDIS_PASSWORD and REDIS_DB.`)
}

func connect(args []string) (*redis.Client, *redishelf.ZapLogger) {
	fs := flag.NewFlagSet("redishelf", flag.ExitOnError)
	addr := fs.String("addr", "", "Redis address")
	fs.Parse(args)

	logger, err := redishelf.NewProductionZapLogger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	opts := redishelf.RedisOptions()
	if *addr != "" {
		opts.Addr = *addr
	}
	return redis.NewClient(opts), logger
}

func runIndexes(args []string) {
	rdb, logger := connect(args)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	manager := redishelf.NewIndexManager(redishelf.NewRediSearchIndexer(rdb)).
		WithLogger(logger)
	manager.RegisterDefaults()

	if err := manager.EnsureAll(ctx); err != nil {
		logger.Error("index bring-up failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("indexes ready")
}

func runPing(args []string) {
	rdb, logger := connect(args)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store := redishelf.NewStore(rdb)
	if err := store.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ping failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("PONG")
}

func runCounter(args []string) {
	rdb, logger := connect(args)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	counter := redishelf.NewCounter(rdb, redishelf.CartCounterKey, logger, nil)
	val, err := counter.Current(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "counter read failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s = %d\n", redishelf.CartCounterKey, val)
}
