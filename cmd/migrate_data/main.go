package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"whatsapp-dashboard/internal/config"
	"whatsapp-dashboard/internal/persist"
)

// Copies the persisted dashboard snapshot from one store backend to another,
// e.g. from the local SQLite file to PostgreSQL.
func main() {
	from := flag.String("from", config.BackendSQLite, "source store backend (sqlite|postgres|redis)")
	to := flag.String("to", config.BackendPostgres, "destination store backend (sqlite|postgres|redis)")
	flag.Parse()

	if *from == *to {
		log.Fatalf("Source and destination are both %s", *from)
	}

	cfg := config.LoadConfig()
	ctx := context.Background()

	srcCfg := *cfg
	srcCfg.StoreBackend = *from
	source, closeSource, err := persist.Open(&srcCfg)
	if err != nil {
		log.Fatalf("Failed to open source %s: %v", *from, err)
	}
	defer closeSource()

	dstCfg := *cfg
	dstCfg.StoreBackend = *to
	dest, closeDest, err := persist.Open(&dstCfg)
	if err != nil {
		log.Fatalf("Failed to open destination %s: %v", *to, err)
	}
	defer closeDest()

	log.Printf("Migrating snapshot %q from %s to %s...", cfg.StoreKey, *from, *to)

	payload, err := source.Load(ctx)
	if errors.Is(err, persist.ErrNotFound) {
		log.Printf("No snapshot stored in %s, nothing to migrate", *from)
		return
	}
	if err != nil {
		log.Fatalf("Failed to read snapshot: %v", err)
	}

	// Refuse to copy a payload the server could not rehydrate
	fields, err := persist.Decode(payload)
	if err != nil {
		log.Fatalf("Source snapshot is unreadable: %v", err)
	}

	if err := dest.Save(ctx, payload); err != nil {
		log.Fatalf("Failed to write snapshot: %v", err)
	}
	log.Printf("Data migration completed successfully (%d state fields, %d bytes)", len(fields), len(payload))
}
