package db

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/envspace/envspace/pkg/hasher"
	"github.com/envspace/envspace/pkg/model"
	"github.com/envspace/envspace/pkg/store"
)

// AdminSeed is the superuser account seeded at startup. Password is
// plaintext here and passed through the hasher before storage; this is the
// one bootstrap-owned exception to the "callers hash" rule, since there is
// no caller.
type AdminSeed struct {
	Email    string
	Password string
}

// Bootstrap brings the schema up to date and seeds the superuser account.
// Idempotent: safe to run against an already-initialized store.
func Bootstrap(gdb *gorm.DB, admin AdminSeed) error {
	if err := Migrate(gdb); err != nil {
		return err
	}
	return seedSuperuser(gdb, admin)
}

func seedSuperuser(gdb *gorm.DB, admin AdminSeed) error {
	if admin.Email == "" {
		return fmt.Errorf("superuser email is required")
	}

	users := store.NewUsers(gdb)
	existing, err := users.FindByEmail(admin.Email)
	if err != nil {
		return fmt.Errorf("superuser lookup failed: %w", err)
	}
	if existing != nil {
		return nil
	}

	_, err = users.Create(model.User{
		Email:    admin.Email,
		Password: hasher.Digest(admin.Password),
	})
	if err != nil {
		return fmt.Errorf("superuser seeding failed: %w", err)
	}

	logrus.WithField("email", admin.Email).Info("seeded superuser account")
	return nil
}
