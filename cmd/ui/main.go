package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"vizboard/internal"
	"vizboard/internal/config"
	"vizboard/internal/container"
	"vizboard/internal/provision"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	c, err := container.New(cfg, internal.NewDefaultLogger())
	if err != nil {
		log.Fatalf("Failed to initialize dependencies: %v", err)
	}
	defer c.Shutdown(context.Background())

	app := c.App()

	if path := os.Getenv("PROVISION_FILE"); path != "" {
		file, err := provision.ParseFile(path)
		if err != nil {
			log.Fatalf("Failed to parse provisioning file %s: %v", path, err)
		}
		if err := app.Provision(context.Background(), file); err != nil {
			log.Fatalf("Failed to apply provisioning file %s: %v", path, err)
		}
	}

	log.Printf("Starting vizboard on http://localhost:%s", cfg.Server.Port)
	log.Fatal(app.Start())
}
