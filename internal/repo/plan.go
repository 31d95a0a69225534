package repo

import (
	"github.com/dsparrowm/blockfundz-sub001/internal/models"
)

func (r *Repository) CreatePlan(plan *models.Plan) error {
	return r.db.Create(plan).Error
}

func (r *Repository) GetPlanByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *Repository) ListPlans() ([]models.Plan, error) {
	var plans []models.Plan
	if err := r.db.Order("id").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
