package postgres

import (
	"fmt"

	"library-nexus/internal/infrastructure/database/postgres/models"
)

// Migrate brings the schema up to date for all persisted models.
func (d *DB) Migrate() error {
	if err := d.DB.AutoMigrate(
		&models.UserModel{},
		&models.PasswordResetTokenModel{},
		&models.PasswordHistoryModel{},
		&models.BookModel{},
		&models.LoanModel{},
		&models.DigitalBookModel{},
		&models.BookDigitalLinkModel{},
		&models.VendorModel{},
		&models.MagazineModel{},
		&models.MagazineIssueModel{},
	); err != nil {
		return fmt.Errorf("error migrating schema: %w", err)
	}
	return nil
}
