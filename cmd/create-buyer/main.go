package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Aviraj0403/grocery-checkout/internal/api/middleware"
	"github.com/Aviraj0403/grocery-checkout/internal/config"
	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/internal/repository/postgres"
)

func main() {
	nameFlag := flag.String("name", "", "Buyer display name")
	emailFlag := flag.String("email", "", "Buyer email")
	phoneFlag := flag.String("phone", "", "Buyer phone number")
	tokenFlag := flag.String("token", "", "API token for this buyer (save it; it cannot be retrieved later)")
	flag.Parse()

	name := strings.TrimSpace(*nameFlag)
	email := strings.TrimSpace(*emailFlag)
	phone := strings.TrimSpace(*phoneFlag)
	// Trim so the stored hash matches what the server receives (AuthMiddleware trims the Bearer token)
	token := strings.TrimSpace(*tokenFlag)

	if name == "" || email == "" || token == "" {
		fmt.Println("Usage:")
		fmt.Println("  go run cmd/create-buyer/main.go --name \"Buyer Name\" --email buyer@example.com --phone 9876543210 --token \"buyer-token-12345\"")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Hash the token (bcrypt for verification; SHA256 hex for fast lookup)
	tokenHash, err := bcrypt.GenerateFromPassword([]byte(token), 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash token: %v\n", err)
		os.Exit(1)
	}

	// Create repositories
	repos := postgres.NewRepositories(db, logger)

	// Create buyer
	buyer := &domain.Buyer{
		Name:        name,
		Email:       email,
		Phone:       phone,
		TokenHash:   string(tokenHash),
		TokenLookup: middleware.TokenLookupHex(token),
		IsActive:    true,
	}

	if err := repos.Buyer.Create(context.Background(), buyer); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create buyer: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Buyer created successfully!\n\n")
	fmt.Printf("Buyer ID: %s\n", buyer.ID.String())
	fmt.Printf("Name: %s\n", buyer.Name)
	fmt.Printf("Email: %s\n", buyer.Email)
	fmt.Printf("Token: %s\n", token)
	fmt.Printf("\nIMPORTANT: Save this token securely! You won't be able to see it again.\n")
	fmt.Printf("\nUse this token in the Authorization header:\n")
	fmt.Printf("Authorization: Bearer %s\n", token)
}
