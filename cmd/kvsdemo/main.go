// Command kvsdemo exercises every store variant the module exposes against
// a local data directory, configured from flags and environment.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	kvs "github.com/santimattius/kmp-kvs-storage"
	"github.com/santimattius/kmp-kvs-storage/internal/document"
	"github.com/santimattius/kmp-kvs-storage/internal/preferences"
	"github.com/santimattius/kmp-kvs-storage/internal/ttl"
)

func main() {
	var (
		dataDir         = flag.String("data", envOrDefault("KVS_BASE_DIR", "./data"), "directory store files are written to")
		encryptionKey   = flag.String("encrypt", os.Getenv("KVS_ENCRYPTION_KEY"), "if set, encrypt store files with this passphrase")
		cleanupInterval = flag.Duration("cleanup", 30*time.Second, "TTL cleanup sweep interval")
		gracefulTimeout = flag.Duration("graceful", 5*time.Second, "graceful shutdown timeout")
	)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []kvs.Option{kvs.WithBaseDir(*dataDir)}
	if *encryptionKey != "" {
		opts = append(opts, kvs.WithEncryptionKey(*encryptionKey))
	}

	log.Printf("[DEMO] opening stores under %s", *dataDir)

	prefs, err := kvs.NewPreferenceStore("app-settings", opts...)
	if err != nil {
		log.Fatalf("open preference store: %v", err)
	}

	sessions, err := kvs.NewTTLStore("sessions", append(opts, kvs.WithDefaultTTL(10*time.Minute))...)
	if err != nil {
		log.Fatalf("open ttl store: %v", err)
	}

	notes, err := kvs.NewDocumentStore("scratch-note", opts...)
	if err != nil {
		log.Fatalf("open document store: %v", err)
	}

	scratch := kvs.NewInMemoryStore()

	if err := demo(ctx, prefs, sessions, notes, scratch); err != nil {
		log.Fatalf("demo run: %v", err)
	}

	cleanup := sessions.CleanupJob(*cleanupInterval)
	go cleanup.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[DEMO] shutting down...")
	cancel()
	time.Sleep(*gracefulTimeout)
	log.Println("[DEMO] bye")
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func demo(ctx context.Context, prefs preferences.Kvs, sessions ttl.KvsExtended, notes *document.Store, scratch preferences.Kvs) error {
	editor := prefs.Edit()
	if err := editor.PutString("theme", "dark"); err != nil {
		return err
	}
	if err := editor.PutBool("notifications_enabled", true); err != nil {
		return err
	}
	if err := editor.Commit(ctx); err != nil {
		return err
	}
	theme, err := prefs.GetString(ctx, "theme", "light")
	if err != nil {
		return err
	}
	log.Printf("[DEMO] theme=%s", theme)

	shortTTL := 2 * time.Second
	sessionEditor := sessions.Edit()
	if err := sessionEditor.PutString("token", "abc123", &shortTTL); err != nil {
		return err
	}
	if err := sessionEditor.Commit(ctx); err != nil {
		return err
	}
	token, err := sessions.GetString(ctx, "token", "")
	if err != nil {
		return err
	}
	log.Printf("[DEMO] session token=%s (expires in %s)", token, shortTTL)

	if _, err := notes.Write(ctx, "reminder: rotate encryption key monthly"); err != nil {
		return err
	}
	text, err := notes.Read(ctx)
	if err != nil {
		return err
	}
	log.Printf("[DEMO] note=%q", text)

	scratchEditor := scratch.Edit()
	if err := scratchEditor.PutInt32("request_count", 1); err != nil {
		return err
	}
	if err := scratchEditor.Commit(ctx); err != nil {
		return err
	}
	count, err := scratch.GetInt32(ctx, "request_count", 0)
	if err != nil {
		return err
	}
	log.Printf("[DEMO] in-memory request_count=%d", count)

	return nil
}
