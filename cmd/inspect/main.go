package main

import (
	"dm-chat/inspect"
	"dm-chat/repositories"
	"flag"
	"fmt"
	"os"

	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "", "Prefix to scan (user:, chat:, msg:, idx:)")
	withIndexes := flag.Bool("indexes", false, "Include secondary indexes")
	limit := flag.Int("limit", 0, "Maximum number of rows, 0 for all")
	noColor := flag.Bool("no-color", false, "Disable coloured output")
	flag.Parse()

	log := logs.GetLoggerFromString("WARN")
	store, err := repositories.Open(repositories.StoreConfig{Path: *dbPath, ReadOnly: true}, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error while opening Badger: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	_, err = inspect.Dump(os.Stdout, store.DB(), inspect.Options{
		Prefix:      *prefix,
		WithIndexes: *withIndexes,
		Limit:       *limit,
		NoColor:     *noColor,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Inspection failed: %v\n", err)
		os.Exit(1)
	}
}
