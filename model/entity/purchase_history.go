package entity

import "time"

// PurchaseHistory is the immutable log of purchase events received from the
// remote store. LoadTime records when the event reached the warehouse,
// PurchaseTime carries the remote timestamp.
type PurchaseHistory struct {
	ID           uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PurchaseCode string     `gorm:"column:purchase_code;type:varchar(50)" json:"purchase_code"`
	ItemCode     string     `gorm:"column:item_code;type:varchar(32);index" json:"item_code"`
	ItemName     string     `gorm:"column:item_name;type:varchar(128)" json:"item_name"`
	VendorName   string     `gorm:"column:vendor_name;type:varchar(128)" json:"vendor_name"`
	Quantity     int        `gorm:"column:quantity" json:"quantity"`
	PricePerUnit float64    `gorm:"column:price_per_unit" json:"price_per_unit"`
	TotalPrice   float64    `gorm:"column:total_price" json:"total_price"`
	PurchaseTime *time.Time `gorm:"column:purchase_time" json:"purchase_time,omitempty"`
	LoadTime     time.Time  `gorm:"column:load_time" json:"load_time"`
}

func (PurchaseHistory) TableName() string {
	return "purchase_history"
}
