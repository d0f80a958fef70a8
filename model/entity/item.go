package entity

import "time"

// ItemStatus is the sale-eligibility status of a stock item.
type ItemStatus string

const (
	StatusForSale    ItemStatus = "FOR_SALE"
	StatusNotForSale ItemStatus = "NOT_FOR_SALE"
)

// Item represents a stock item held at the warehouse. RequiresSync marks the
// record for the next outbound delivery; it is set on every mutation and
// cleared only after the remote store confirmed receiving the record.
type Item struct {
	ID             uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Code           string     `gorm:"column:code;type:varchar(32);not null;uniqueIndex" json:"code"`
	Name           string     `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Description    string     `gorm:"column:description;type:text" json:"description"`
	Picture        string     `gorm:"column:picture;type:varchar(256)" json:"picture,omitempty"`
	PricePerUnit   float64    `gorm:"column:price_per_unit" json:"price_per_unit"`
	UnitsInStock   int        `gorm:"column:units_in_stock;not null;default:0" json:"units_in_stock"`
	Status         ItemStatus `gorm:"column:status;type:varchar(16);not null;default:NOT_FOR_SALE" json:"status"`
	VendorID       *uint      `gorm:"column:vendor_id" json:"vendor_id,omitempty"`
	UserID         *uint      `gorm:"column:user_id" json:"user_id,omitempty"`
	UnitsPurchased int        `gorm:"column:units_purchased;not null;default:0" json:"units_purchased"`
	LastUpdated    time.Time  `gorm:"column:last_updated;autoUpdateTime" json:"last_updated"`
	RequiresSync   bool       `gorm:"column:requires_sync;not null;default:true" json:"requires_sync"`
	Vendor         *Vendor    `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}

func (Item) TableName() string {
	return "items"
}

func (i *Item) ForSale() bool {
	return i.Status == StatusForSale
}
