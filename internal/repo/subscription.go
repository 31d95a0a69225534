package repo

import (
	"github.com/dsparrowm/blockfundz-sub001/internal/models"
)

// CreateSubscription enrolls a user in a plan. Any previously active
// subscription is superseded first so at most one is accruing interest.
func (r *Repository) CreateSubscription(sub *models.Subscription) error {
	if err := r.db.Model(&models.Subscription{}).
		Where("user_id = ? AND status = ?", sub.UserID, models.SubscriptionActive).
		Update("status", models.SubscriptionInactive).Error; err != nil {
		return err
	}
	sub.Status = models.SubscriptionActive
	return r.db.Create(sub).Error
}

func (r *Repository) GetSubscriptionByID(id uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Preload("Plan").First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *Repository) GetActiveSubscriptions() ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := r.db.Preload("Plan").
		Where("status = ?", models.SubscriptionActive).
		Order("id ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *Repository) UpdateSubscription(sub *models.Subscription) error {
	return r.db.Model(sub).
		Select("status", "amount", "last_interest_calculation").
		Updates(sub).Error
}
