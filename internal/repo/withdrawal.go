package repo

import (
	"github.com/dsparrowm/blockfundz-sub001/internal/models"
)

func (r *Repository) CreateWithdrawalRequest(req *models.WithdrawalRequest) error {
	return r.db.Create(req).Error
}

func (r *Repository) GetWithdrawalRequestByID(id uint) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *Repository) UpdateWithdrawalStatus(req *models.WithdrawalRequest) error {
	return r.db.Model(req).Update("status", req.Status).Error
}

func (r *Repository) ListWithdrawalsByStatus(status string) ([]models.WithdrawalRequest, error) {
	var reqs []models.WithdrawalRequest
	query := r.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}
