// Package main provides a CLI tool to seed the sample survey for a survey owner.
// Usage: go run cmd/seed-survey/main.go -owner "user-123"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/surveyforge/surveyforge_backend/internal/database"
)

func main() {
	// Define command line flags
	owner := flag.String("owner", "", "Owner user id the sample survey belongs to (required)")
	envFile := flag.String("env", "", "Path to .env file (defaults to .env in current dir or backend dir)")
	clearData := flag.Bool("clear", false, "Remove the owner's sample survey instead of creating it")
	dryRun := flag.Bool("dry-run", false, "Print what would be done without writing to database")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Creates a published sample survey with skip logic and quiz scoring.\n\n")
		fmt.Fprintf(os.Stderr, "Configuration is loaded from .env file and/or environment variables.\n")
		fmt.Fprintf(os.Stderr, "Environment variables take precedence over .env file values.\n\n")
		fmt.Fprintf(os.Stderr, "Required config (via .env or environment):\n")
		fmt.Fprintf(os.Stderr, "  SURVEYFORGE_DATABASE_URI   MongoDB connection URI\n")
		fmt.Fprintf(os.Stderr, "  SURVEYFORGE_DATABASE_NAME  Database name (default: surveyforge)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -owner \"user-123\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -owner \"user-123\" -clear\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -owner \"user-123\" -env /path/to/.env -dry-run\n", os.Args[0])
	}

	flag.Parse()

	// Load .env file
	loadEnvFile(*envFile)

	// Validate required flags
	if *owner == "" {
		log.Fatal("Error: -owner is required")
	}

	// Load database configuration from environment
	dbCfg := database.DefaultConfig()
	dbCfg.URI = os.Getenv("SURVEYFORGE_DATABASE_URI")
	if dbCfg.URI == "" {
		log.Fatal("Error: SURVEYFORGE_DATABASE_URI environment variable is required")
	}
	if name := os.Getenv("SURVEYFORGE_DATABASE_NAME"); name != "" {
		dbCfg.Database = name
	}
	dbCfg.MinPoolSize = 0

	action := "seed"
	if *clearData {
		action = "clear"
	}
	fmt.Println("=== Sample Survey ===")
	fmt.Printf("  Owner:    %s\n", *owner)
	fmt.Printf("  Title:    %s\n", database.SampleSurveyTitle)
	fmt.Printf("  Database: %s\n", dbCfg.Database)
	fmt.Printf("  Action:   %s\n", action)
	fmt.Println()

	if *dryRun {
		fmt.Println("[DRY RUN] No changes made to database")
		return
	}

	client, err := database.NewClient(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	if err := run(client, *owner, *clearData); err != nil {
		closeClient(client)
		log.Fatalf("Error: %v", err)
	}
	closeClient(client)
}

func run(client *database.Client, owner string, clearData bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seeder := database.NewSeeder(client.Database())
	if clearData {
		if err := seeder.ClearSeededData(ctx, owner); err != nil {
			return fmt.Errorf("failed to clear sample survey: %w", err)
		}
		fmt.Println("✓ Sample survey removed")
		return nil
	}

	if err := client.EnsureIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create indexes: %v", err)
	}

	survey, err := seeder.SeedSampleSurvey(ctx, owner)
	if err != nil {
		return fmt.Errorf("failed to seed sample survey: %w", err)
	}
	fmt.Printf("✓ Sample survey ready: %s (%s)\n", survey.Title, survey.ID.Hex())
	fmt.Println()
	fmt.Printf("Respondents can start it with: POST /api/v1/take/surveys/%s/sessions\n", survey.ID.Hex())
	return nil
}

func closeClient(client *database.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Close(ctx); err != nil {
		log.Printf("Error disconnecting from MongoDB: %v", err)
	}
}

// loadEnvFile loads environment variables from a .env file
func loadEnvFile(path string) {
	if path == "" {
		// Try to find .env in current dir or backend dir
		cwd, _ := os.Getwd()
		if _, err := os.Stat(filepath.Join(cwd, ".env")); err == nil {
			path = ".env"
		} else if _, err := os.Stat(filepath.Join(cwd, "backend", ".env")); err == nil {
			path = filepath.Join(cwd, "backend", ".env")
		}
	}

	if path != "" {
		if err := godotenv.Load(path); err != nil {
			log.Printf("Error loading .env file: %v", err)
		}
	}
}
