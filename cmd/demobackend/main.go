// Command demobackend starts a self-contained FraudEye backend with a
// keyword classifier and sample article pages.
// Usage: go run ./cmd/demobackend [port]
// Default port: 5000, or DEMOBACKEND_ADDR.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/raysh454/fraudeye/internal/demobackend"
	"github.com/raysh454/fraudeye/internal/logging"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Loading .env: %v", err)
	}

	cfg := demobackend.DefaultConfig()
	if addr := os.Getenv("DEMOBACKEND_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.ListenAddr = fmt.Sprintf(":%d", port)
	}

	fmt.Println("===========================================")
	fmt.Println("   FraudEye Demo Backend")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Endpoints:")
	fmt.Println("  POST /api/auth/register, /api/auth/login")
	fmt.Println("  GET  /api/scans[?mine=true], POST /api/scans")
	fmt.Println("  POST /api/predict, GET /api/health")
	fmt.Println("  GET  /demo/articles (sample pages for auto-scan)")
	fmt.Println()

	logger := logging.NewStdoutLogger("demobackend")
	server := demobackend.NewServer(cfg, logger)
	logger.Info("listening", logging.Field{Key: "addr", Value: cfg.ListenAddr})
	if err := server.HTTPServer().ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
}
