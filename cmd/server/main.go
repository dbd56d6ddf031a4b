package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"draw-guess/internal/config"
	"draw-guess/internal/db"
	"draw-guess/internal/server"
	"draw-guess/internal/words"

	"gorm.io/gorm"
)

func main() {
	autoMigrate := flag.Bool("automigrate", false, "create missing tables before serving")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	var conn *gorm.DB
	if os.Getenv("DATABASE_URL") != "" {
		var err error
		conn, err = db.Open()
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		if err := db.ConfigurePool(conn, db.Pool{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second,
		}); err != nil {
			log.Fatalf("database pool setup failed: %v", err)
		}
		if *autoMigrate {
			if err := db.Migrate(conn); err != nil {
				log.Fatalf("database migration failed: %v", err)
			}
		}
	}

	list := loadWords(cfg, conn)
	log.Printf("word list ready words=%d", list.Len())

	srv := server.New(conn, cfg, list)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("draw-guess server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown failed: %v", err)
	}
	srv.Close()
	log.Println("draw-guess server stopped")
}

// loadWords prefers WORDS_PATH, then the words table, then the bundled list.
func loadWords(cfg config.Config, conn *gorm.DB) *words.List {
	if cfg.WordsPath != "" {
		list, err := words.LoadFile(cfg.WordsPath)
		if err != nil {
			log.Fatalf("failed to load words from %s: %v", cfg.WordsPath, err)
		}
		return list
	}
	if conn != nil {
		list, err := words.LoadDB(conn)
		if err == nil {
			return list
		}
		log.Printf("word table unavailable, using bundled words: %v", err)
	}
	return words.Default()
}
