package entity

import "time"

// DeletedItem is the tombstone written when a stock item is removed. Vendor
// name is denormalized so deleting a vendor is never blocked by tombstones.
// Rows are append-only; only RequiresSync is ever mutated afterwards.
type DeletedItem struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Code         string    `gorm:"column:code;type:varchar(32);not null;index" json:"code"`
	Name         string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	UserName     string    `gorm:"column:user_name;type:varchar(64);not null" json:"user_name"`
	VendorName   string    `gorm:"column:vendor_name;type:varchar(128);not null" json:"vendor_name"`
	DeletionTime time.Time `gorm:"column:deletion_time" json:"deletion_time"`
	RequiresSync bool      `gorm:"column:requires_sync;not null;default:true" json:"requires_sync"`
}

func (DeletedItem) TableName() string {
	return "deleted_items"
}
