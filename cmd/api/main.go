package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyportal.org/internal/catalog"
	"studyportal.org/internal/directory"
	"studyportal.org/internal/httpapi"
	"studyportal.org/internal/kv"
	"studyportal.org/internal/ledger"
	"studyportal.org/internal/obs"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	// Инициализация observability (регистрация метрик, JSON-логгер и т.п.)
	obs.Init()
	obs.InitBuildInfo(version, commit)

	ctx := context.Background()

	// Выбор KV-бэкенда: Redis > Postgres > файл > память.
	store, probe, closeStore, err := openStore(ctx)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	dir := directory.NewService(store)
	cat := catalog.NewService(store)
	led := ledger.NewService(store, cat)

	// Базовый каталог сеется один раз, повторный старт его не трогает.
	if err := cat.SeedIfEmpty(ctx); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}

	api := httpapi.New(probe, version, dir, cat, led)

	addr := os.Getenv("PORTAL_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(), // уже обёрнут метриками в httpapi
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting studyportal-api %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
	closeStore()
	log.Println("Stopped")
}

// openStore подбирает бэкенд по окружению. Возвращает также probe для /readyz
// и функцию закрытия соединений.
func openStore(ctx context.Context) (kv.Store, httpapi.ReadyProbe, func(), error) {
	if addr := os.Getenv("PORTAL_REDIS_ADDR"); addr != "" {
		r, err := kv.OpenRedis(ctx, addr, os.Getenv("PORTAL_REDIS_PASSWORD"))
		if err != nil {
			return nil, httpapi.ReadyProbe{}, nil, err
		}
		log.Printf("kv backend: redis %s", addr)
		return r, httpapi.ReadyProbe{}, func() { _ = r.Close() }, nil
	}
	if dsn := os.Getenv("PORTAL_PG_DSN"); dsn != "" {
		pg, err := kv.OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, httpapi.ReadyProbe{}, nil, err
		}
		log.Println("kv backend: postgres")
		return pg, httpapi.ReadyProbe{DB: pg.DB()}, func() { _ = pg.Close() }, nil
	}
	if path := os.Getenv("PORTAL_DATA_FILE"); path != "" {
		f, err := kv.OpenFile(path)
		if err != nil {
			return nil, httpapi.ReadyProbe{}, nil, err
		}
		log.Printf("kv backend: file %s", path)
		return f, httpapi.ReadyProbe{}, func() {}, nil
	}
	log.Println("kv backend: in-memory (data is lost on restart)")
	return kv.NewMemory(), httpapi.ReadyProbe{}, func() {}, nil
}
