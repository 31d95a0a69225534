package repo

import (
	"github.com/dsparrowm/blockfundz-sub001/internal/models"
)

func (r *Repository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserBalances persists the full balance column set. Select is
// explicit so zeroed balances are written too.
func (r *Repository) UpdateUserBalances(user *models.User) error {
	return r.db.Model(user).
		Select("main_balance", "bitcoin_balance", "ethereum_balance", "usdt_balance", "usdc_balance", "use_calculated_balance").
		Updates(user).Error
}
