// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "tunekeeper/internal/commands/core"

	"tunekeeper/internal/config"
	"tunekeeper/internal/discord"
	"tunekeeper/internal/storage"
	v "tunekeeper/internal/version"
)

func main() {
	log.Printf("[INFO] Starting %v bot...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.New()

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cancel()
	}()

	if err := discord.StartBot(ctx, cfg, store); err != nil {
		log.Fatal(err)
	}

	log.Println("[INFO] Bye.")
}
