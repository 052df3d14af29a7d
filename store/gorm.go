package store

import (
	"log"

	"vibepos/models"

	"github.com/jinzhu/gorm"
)

// Gorm persists credentials in the password_resets table so they survive a
// restart. Delete-before-create keeps the one-live-credential-per-email
// invariant even if the unique index is ever dropped.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) Put(email string, rec Record) error {
	tx := g.db.Begin()
	if err := tx.Where("email = ?", email).Delete(&models.PasswordReset{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	row := models.PasswordReset{
		Email:    email,
		Token:    rec.Token,
		IssuedAt: rec.IssuedAt,
	}
	if err := tx.Create(&row).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (g *Gorm) Get(email string) (Record, bool) {
	var row models.PasswordReset
	if err := g.db.Where("email = ?", email).First(&row).Error; err != nil {
		return Record{}, false
	}
	return Record{Email: row.Email, Token: row.Token, IssuedAt: row.IssuedAt}, true
}

func (g *Gorm) Delete(email string) {
	if err := g.db.Where("email = ?", email).Delete(&models.PasswordReset{}).Error; err != nil {
		log.Printf("credential store: delete failed email=%s err=%v", email, err)
	}
}
