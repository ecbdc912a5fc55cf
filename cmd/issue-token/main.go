// Package main provides a CLI tool to issue an access token for a survey owner.
// Usage: go run cmd/issue-token/main.go -email "owner@example.com"
// This is useful for development when no identity provider is wired in front of the API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/surveyforge/surveyforge_backend/internal/auth"
)

func main() {
	// Define command line flags
	userID := flag.String("user", "", "Owner user id (a new UUID is generated if not provided)")
	email := flag.String("email", "", "Owner email embedded in the token (optional)")
	expiry := flag.Duration("expiry", 0, "Override SURVEYFORGE_ACCESS_TOKEN_EXPIRY (e.g. 24h)")
	envFile := flag.String("env", "", "Path to .env file (defaults to .env in current dir or backend dir)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Issues a signed access token for the survey authoring API (development use).\n\n")
		fmt.Fprintf(os.Stderr, "Configuration is loaded from .env file and/or environment variables.\n\n")
		fmt.Fprintf(os.Stderr, "Required config (via .env or environment):\n")
		fmt.Fprintf(os.Stderr, "  SURVEYFORGE_JWT_PRIVATE_KEY_PATH  RSA private key (PEM)\n")
		fmt.Fprintf(os.Stderr, "  SURVEYFORGE_JWT_PUBLIC_KEY_PATH   RSA public key (PEM)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -email \"owner@example.com\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -user \"user-123\" -expiry 24h\n", os.Args[0])
	}

	flag.Parse()

	// Load .env file
	loadEnvFile(*envFile)

	// Validate email format
	if *email != "" && !isValidEmail(*email) {
		log.Fatalf("Error: invalid email format: %s", *email)
	}

	if *userID == "" {
		*userID = uuid.NewString()
	}

	privateKeyPath := os.Getenv("SURVEYFORGE_JWT_PRIVATE_KEY_PATH")
	publicKeyPath := os.Getenv("SURVEYFORGE_JWT_PUBLIC_KEY_PATH")
	if privateKeyPath == "" || publicKeyPath == "" {
		log.Fatal("Error: SURVEYFORGE_JWT_PRIVATE_KEY_PATH and SURVEYFORGE_JWT_PUBLIC_KEY_PATH are required")
	}

	tokenExpiry := *expiry
	if tokenExpiry == 0 {
		tokenExpiry = time.Hour
		if raw := os.Getenv("SURVEYFORGE_ACCESS_TOKEN_EXPIRY"); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil {
				log.Fatalf("Error: invalid SURVEYFORGE_ACCESS_TOKEN_EXPIRY: %v", err)
			}
			tokenExpiry = parsed
		}
	}

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		PrivateKeyPath:    privateKeyPath,
		PublicKeyPath:     publicKeyPath,
		AccessTokenExpiry: tokenExpiry,
		Issuer:            "surveyforge-backend",
	})
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}

	token, expiresAt, err := jwtService.GenerateAccessToken(*userID, *email)
	if err != nil {
		log.Fatalf("Failed to generate access token: %v", err)
	}

	// Output results
	fmt.Println()
	fmt.Println("=== Access Token Issued ===")
	fmt.Printf("  User:    %s\n", *userID)
	if *email != "" {
		fmt.Printf("  Email:   %s\n", *email)
	}
	fmt.Printf("  Expires: %s (%s)\n", expiresAt.Format(time.RFC3339), tokenExpiry)
	fmt.Println()
	fmt.Println("Authorization header:")
	fmt.Printf("Bearer %s\n", token)
	fmt.Println()
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
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
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}
}
