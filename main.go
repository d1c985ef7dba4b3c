package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"medocr/cmd"
	"medocr/internal/config"
	"medocr/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		if setupErr := logger.Setup(logger.DefaultConfig()); setupErr != nil {
			log.Fatalf("Failed to initialize logger: %v", setupErr)
		}
		logger.Fatal(err, "Invalid configuration")
	}

	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	log := logger.WithComponent("main")
	log.Debug().Str("endpoint", cfg.Endpoint()).Msg("Starting medocr")

	cmd.Execute(cfg)
}
