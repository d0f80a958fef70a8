package purchase

import (
	"gorm.io/gorm"

	"malldepot/model/entity"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// List returns one page of the purchase log, newest first.
func (r *PurchaseRepository) List(limit, offset int) ([]entity.PurchaseHistory, int64, error) {
	var total int64
	if err := r.db.Model(&entity.PurchaseHistory{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []entity.PurchaseHistory
	err := r.db.Order("id DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

// CountByItemCode reports how many log entries reference a stock item.
func (r *PurchaseRepository) CountByItemCode(code string) (int64, error) {
	var n int64
	err := r.db.Model(&entity.PurchaseHistory{}).Where("item_code = ?", code).Count(&n).Error
	return n, err
}
