package repo

import (
	"github.com/dsparrowm/blockfundz-sub001/internal/models"
)

func (r *Repository) CreateIdempotencyKey(key *models.IdempotencyKey) error {
	return r.db.Create(key).Error
}

func (r *Repository) GetIdempotencyKey(key string) (*models.IdempotencyKey, error) {
	var record models.IdempotencyKey
	if err := r.db.Where("key = ?", key).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
