package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service/config"
	"github.com/oksasatya/user-service/internal/domain/entity"
	"github.com/oksasatya/user-service/internal/domain/repository"
	pginfra "github.com/oksasatya/user-service/internal/infrastructure/postgres"
	"github.com/oksasatya/user-service/pkg/helpers"
	"github.com/oksasatya/user-service/pkg/validation"
)

// seed ensures the Admin and User roles exist and creates a confirmed admin
// account. Credentials come from SEED_ADMIN_* variables.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	username := getenv("SEED_ADMIN_USERNAME", "admin")
	email := getenv("SEED_ADMIN_EMAIL", "admin@example.com")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if !validation.StrongPassword(password) {
		logger.Fatal("SEED_ADMIN_PASSWORD must have at least 8 characters, including uppercase, lowercase, number, and special character")
	}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	for id, name := range map[int64]string{entity.RoleAdminID: "Admin", entity.RoleUserID: "User"} {
		if _, err := pool.Exec(ctx, `
			INSERT INTO roles (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
		`, id, name); err != nil {
			logger.WithError(err).WithField("role", name).Fatal("failed to upsert role")
		}
	}
	logger.Info("roles ensured")

	hash, err := helpers.NewBcryptHasher(cfg.BcryptCost).Hash(password)
	if err != nil {
		logger.WithError(err).Fatal("failed to hash password")
	}

	admin := adminAccount(username, email, hash, time.Now().UTC())

	err = pginfra.NewAccountRepository(pool).Add(ctx, admin)
	switch {
	case errors.Is(err, repository.ErrConflict):
		logger.WithFields(logrus.Fields{"username": admin.Username, "email": admin.Email}).Info("admin account already exists")
	case err != nil:
		logger.WithError(err).Fatal("failed to seed admin account")
	default:
		logger.WithFields(logrus.Fields{"id": admin.ID, "username": admin.Username, "email": admin.Email}).Info("seeded admin account")
	}
}

// adminAccount builds the confirmed admin with the email in the same canonical
// form the service uses for login and code lookups.
func adminAccount(username, email, hash string, now time.Time) *entity.Account {
	a := entity.NewAccount(entity.NewAccountParams{
		Username:     strings.TrimSpace(username),
		Email:        entity.NormalizeEmail(email),
		PasswordHash: hash,
		FullName:     "Administrator",
		RoleID:       entity.RoleAdminID,
	}, now)
	a.ConfirmEmail()
	return a
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
