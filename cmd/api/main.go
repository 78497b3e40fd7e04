package main

import (
	"net/http"
	"os"
	"time"

	"rescue-revolution/internal/platform/logger"
	"rescue-revolution/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	// .env es opcional; en prod las vars vienen del entorno.
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := router.NewRouter(router.Options{
		UploadDir: os.Getenv("UPLOAD_DIR"),
		Logger:    log,
	})

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		// ReadTimeout holgado para uploads de hasta 16 MiB.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
