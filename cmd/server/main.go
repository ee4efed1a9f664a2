package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/greenevillebjj/matdesk/internal/db"
	"github.com/greenevillebjj/matdesk/internal/logging"
	"github.com/greenevillebjj/matdesk/internal/web"
)

func main() {
	// .env is optional; real config comes from the environment.
	_ = godotenv.Load()

	logger, err := logging.Init(logging.ConfigFromEnv())
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	// Store init failure is fatal: nothing works without it.
	if err := db.Init(); err != nil {
		logger.Fatal("db init", zap.Error(err))
	}

	r := web.Router()

	addr := getEnv("ADDR", ":8080")
	logger.Info("Mat Desk listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
