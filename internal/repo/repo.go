package repo

import (
	"errors"

	"github.com/dsparrowm/blockfundz-sub001/internal/models"

	"gorm.io/gorm"
)

var ErrNilDatabase = errors.New("database cannot be nil")

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}
	return &Repository{db: db}, nil
}

// WithTx returns a repository bound to the given transaction handle so
// that several writes commit or roll back together.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.Plan{},
		&models.Subscription{},
		&models.WithdrawalRequest{},
		&models.CachedPrice{},
		&models.IdempotencyKey{},
	)
}
