package stock

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"malldepot/model/entity"
)

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) FindByID(id uint) (*entity.Item, error) {
	var item entity.Item
	if err := r.db.Preload("Vendor").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *StockRepository) FindByCode(code string) (*entity.Item, error) {
	var item entity.Item
	if err := r.db.Where("code = ?", code).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns one page of items with vendors preloaded, newest first.
func (r *StockRepository) List(limit, offset int) ([]entity.Item, int64, error) {
	var total int64
	if err := r.db.Model(&entity.Item{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []entity.Item
	err := r.db.Preload("Vendor").Order("id").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

// Create stores a new item. New items always require sync.
func (r *StockRepository) Create(item *entity.Item) error {
	item.RequiresSync = true
	return r.db.Create(item).Error
}

// Update saves item changes and marks the record for the next delivery.
func (r *StockRepository) Update(item *entity.Item) error {
	item.RequiresSync = true
	return r.db.Save(item).Error
}

// DeleteWithTombstone removes an item and writes its DeletedItem record in
// one transaction. Vendor name is copied so the tombstone never blocks
// vendor deletion.
func (r *StockRepository) DeleteWithTombstone(itemID uint, userName string, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var item entity.Item
		if err := tx.Preload("Vendor").First(&item, itemID).Error; err != nil {
			return err
		}
		vendorName := ""
		if item.Vendor != nil {
			vendorName = item.Vendor.Name
		}
		tombstone := entity.DeletedItem{
			Code:         item.Code,
			Name:         item.Name,
			Description:  item.Description,
			UserName:     userName,
			VendorName:   vendorName,
			DeletionTime: now,
			RequiresSync: true,
		}
		if err := tx.Create(&tombstone).Error; err != nil {
			return fmt.Errorf("write tombstone: %w", err)
		}
		return tx.Delete(&item).Error
	})
}

func (r *StockRepository) ListDeleted(limit, offset int) ([]entity.DeletedItem, int64, error) {
	var total int64
	if err := r.db.Model(&entity.DeletedItem{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []entity.DeletedItem
	err := r.db.Order("id").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

// CountPending returns how many live items currently require sync.
func (r *StockRepository) CountPending() (int64, error) {
	var n int64
	err := r.db.Model(&entity.Item{}).Where("requires_sync = ?", true).Count(&n).Error
	return n, err
}
