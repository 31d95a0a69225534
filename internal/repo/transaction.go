package repo

import (
	"github.com/dsparrowm/blockfundz-sub001/internal/models"
)

func (r *Repository) CreateTransaction(tx *models.Transaction) error {
	return r.db.Create(tx).Error
}

func (r *Repository) GetTransactionByReference(reference string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.Where("reference = ?", reference).First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *Repository) GetTransactionsByUser(userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("user_id = ?", userID).Order("date DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// SupersedeTransactionsByUser archives a user's history during a balance
// reset. Records stay in place with status SUPERSEDED so the audit trail
// remains append-only.
func (r *Repository) SupersedeTransactionsByUser(userID uint) error {
	return r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND status <> ?", userID, models.StatusSuperseded).
		Update("status", models.StatusSuperseded).Error
}

func (r *Repository) CountTransactionsByUser(userID uint, status string) (int64, error) {
	var count int64
	query := r.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
