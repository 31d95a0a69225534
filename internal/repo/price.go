package repo

import (
	"time"

	"github.com/dsparrowm/blockfundz-sub001/internal/models"

	"gorm.io/gorm/clause"
)

// UpsertCachedPrices writes one row per symbol, replacing any previous
// quote. Every successful external fetch lands here for all assets at once.
func (r *Repository) UpsertCachedPrices(quotes map[string]float64, at time.Time) error {
	rows := make([]models.CachedPrice, 0, len(quotes))
	for symbol, price := range quotes {
		rows = append(rows, models.CachedPrice{
			Symbol:    symbol,
			Price:     price,
			UpdatedAt: at,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
	}).Create(&rows).Error
}

func (r *Repository) GetCachedPrices() ([]models.CachedPrice, error) {
	var rows []models.CachedPrice
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
