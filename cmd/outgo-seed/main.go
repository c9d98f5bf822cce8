// Command outgo-seed populates the database with default taxonomy and demo
// users, and prunes payment methods no activity references.
package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"outgo/internal/auth"
	"outgo/internal/cli"
	"outgo/internal/log"
	"outgo/internal/storage"
)

var defaultCategories = []string{
	"Food",
	"Transport",
	"Shopping",
	"Utilities",
	"Entertainment",
	"Health",
	"Salary",
	"Freelance",
	"Investment",
}

var sharedPaymentMethods = []string{
	"Cash",
	"Bank Account",
	"Credit Card",
	"Savings",
	"PayPal",
	"Crypto Wallet",
}

type demoUser struct {
	name     string
	email    string
	password string
}

var demoUsers = []demoUser{
	{name: "demo", email: "demo@example.com", password: "demo-password-1"},
	{name: "alice", email: "alice@example.com", password: "alice-password-1"},
}

func main() {
	seedTaxonomy := flag.Bool("seed", false, "seed default categories and shared payment methods")
	seedUsers := flag.Bool("users", false, "create demo users")
	cleanup := flag.Bool("cleanup", false, "delete payment methods no activity references")
	flag.Parse()

	logger := cli.SetupLogger().WithComponent(log.ComponentSeed)
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	if !*seedTaxonomy && !*seedUsers && !*cleanup {
		logger.Error("nothing to do, pass -seed, -users or -cleanup")
		return
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *seedTaxonomy {
		runTaxonomySeed(ctx, logger, repo)
	}
	if *seedUsers {
		runUserSeed(ctx, logger, repo, cfg.JWTSecret, cfg.SessionTTL)
	}
	if *cleanup {
		runCleanup(ctx, logger, repo)
	}
}

func runTaxonomySeed(ctx context.Context, logger *log.Logger, repo *storage.SQLiteRepository) {
	for _, name := range defaultCategories {
		if err := repo.UpsertCategory(ctx, name); err != nil {
			logger.Error("failed to seed category",
				log.FieldCategory, name, log.FieldError, err.Error())
			return
		}
	}
	for _, name := range sharedPaymentMethods {
		if err := repo.UpsertPaymentMethod(ctx, name, 0); err != nil {
			logger.Error("failed to seed payment method",
				log.FieldPayMethod, name, log.FieldError, err.Error())
			return
		}
	}
	logger.Info("taxonomy seeded",
		"categories", len(defaultCategories), "payment_methods", len(sharedPaymentMethods))
}

func runUserSeed(ctx context.Context, logger *log.Logger, repo *storage.SQLiteRepository, jwtSecret string, sessionTTL time.Duration) {
	tokens := auth.NewTokenIssuer(jwtSecret, sessionTTL)
	authSvc := auth.NewService(repo, repo, tokens, logger)

	for _, du := range demoUsers {
		u, _, err := authSvc.Signup(ctx, du.name, du.email, du.password)
		switch {
		case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, auth.ErrNameTaken):
			logger.Info("demo user already exists", "email", du.email)
		case err != nil:
			logger.Error("failed to create demo user",
				"email", du.email, log.FieldError, err.Error())
			return
		default:
			logger.Info("demo user created", log.FieldUserID, u.ID, "email", du.email)
		}
	}
}

func runCleanup(ctx context.Context, logger *log.Logger, repo *storage.SQLiteRepository) {
	unused, err := repo.UnusedPaymentMethods(ctx)
	if err != nil {
		logger.Error("failed to list unused payment methods", log.FieldError, err.Error())
		return
	}
	for _, name := range unused {
		if err := repo.DeletePaymentMethod(ctx, name); err != nil {
			logger.Error("failed to delete payment method",
				log.FieldPayMethod, name, log.FieldError, err.Error())
			return
		}
		logger.Info("deleted unused payment method", log.FieldPayMethod, name)
	}
	logger.Info("cleanup complete", "removed", len(unused))
}
