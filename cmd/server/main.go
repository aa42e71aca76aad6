package main

import (
	"context"
	"log"
	"net/http"

	"certitrust/internal/config"
	"certitrust/internal/db"
	"certitrust/internal/handlers"
	"certitrust/internal/oracle"
	"certitrust/internal/router"
	"certitrust/internal/store"
	"certitrust/internal/verify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	db.Init(cfg.DatabaseURL)

	kv, err := store.NewRedisKV(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatal("redis:", err)
	}
	defer kv.Close()

	gateway := store.NewGateway(kv)
	orc := oracle.New(cfg.GeminiAPIKey, cfg.VisionCredentials)
	verifier := verify.New(gateway, orc)
	h := handlers.New(verifier, gateway, cfg)

	addr := ":" + cfg.Port
	log.Println("listening on", addr)
	if err := http.ListenAndServe(addr, router.RegisterRouter(h, cfg.InstitutionAPIKey)); err != nil {
		log.Fatal(err)
	}
}
