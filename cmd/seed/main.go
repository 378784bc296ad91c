package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"taskclinic/backend/internal/config"
	"taskclinic/backend/internal/seed"
	"taskclinic/backend/internal/services"
	"taskclinic/backend/internal/store"

	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("ℹ️ No .env file found: %v", err)
		}
	}
}

func main() {
	doctorsCmd := flag.NewFlagSet("doctors", flag.ExitOnError)
	doctorPassword := doctorsCmd.String("password", "doctor123", "Password for every demo doctor account")

	adminCmd := flag.NewFlagSet("admin", flag.ExitOnError)
	adminEmail := adminCmd.String("email", "", "Administrator email (required)")
	adminPassword := adminCmd.String("password", "", "Administrator password (required, at least 6 characters)")
	adminFirst := adminCmd.String("first-name", "Clinic", "Administrator first name")
	adminLast := adminCmd.String("last-name", "Admin", "Administrator last name")

	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	run := func(do func(ctx context.Context, s *seed.Seeder) error) {
		ctx := context.Background()
		repos, err := store.Open(ctx, cfg)
		if err != nil {
			log.Fatalf("❌ Failed to open store: %v", err)
		}
		defer repos.Close(ctx)

		tokens := services.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL)
		if err := do(ctx, seed.New(repos, tokens, cfg.Auth.BCryptCost)); err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	switch os.Args[1] {
	case "doctors":
		doctorsCmd.Parse(os.Args[2:])
		run(func(ctx context.Context, s *seed.Seeder) error {
			created, err := s.Doctors(ctx, seed.DemoDoctors(*doctorPassword))
			log.Printf("Created %d doctor profiles", created)
			return err
		})
	case "admin":
		adminCmd.Parse(os.Args[2:])
		if *adminEmail == "" || *adminPassword == "" {
			adminCmd.Usage()
			os.Exit(2)
		}
		run(func(ctx context.Context, s *seed.Seeder) error {
			_, err := s.Admin(ctx, *adminEmail, *adminPassword, *adminFirst, *adminLast)
			return err
		})
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Usage: seed <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  doctors   Create the demo doctor accounts and their profiles")
	fmt.Println("            --password string   shared password (default \"doctor123\")")
	fmt.Println("  admin     Create an administrator account")
	fmt.Println("            --email string      administrator email")
	fmt.Println("            --password string   administrator password")
	fmt.Println("            --first-name, --last-name")
	fmt.Println()
	fmt.Println("The store is selected by DB_DRIVER, exactly as for the server.")
}
