package sync

import (
	"gorm.io/gorm"

	"malldepot/model/entity"
)

// JSON keys of the four delta categories in the bulk-update payload.
const (
	DeletedKey      = "deleted"
	NotForSaleKey   = "not_for_sale"
	OutOfStockKey   = "out_of_stock"
	StockUpdatesKey = "stock_updates"
)

// One selector struct per category. Each projects an entity to exactly the
// attributes the store needs, with no reflection involved.

// DeletedUpdate announces a removed item.
type DeletedUpdate struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (u DeletedUpdate) SyncKey() string { return u.Code }

// ItemUpdate announces an item the store should stop offering.
type ItemUpdate struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (u ItemUpdate) SyncKey() string { return u.Code }

// StockUpdate carries the full sellable projection of an item.
type StockUpdate struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	VendorName   string  `json:"vendor_name"`
	PricePerUnit float64 `json:"price_per_unit"`
	UnitsInStock int     `json:"units_in_stock"`
}

func (u StockUpdate) SyncKey() string { return u.Code }

// Payload is the combined bulk-update body. The four lists are mutually
// exclusive and, over pending stock items, collectively exhaustive: every
// pending record lands in exactly one of them.
type Payload struct {
	Deleted      []DeletedUpdate `json:"deleted"`
	NotForSale   []ItemUpdate    `json:"not_for_sale"`
	OutOfStock   []ItemUpdate    `json:"out_of_stock"`
	StockUpdates []StockUpdate   `json:"stock_updates"`
}

// Total counts entries across all four categories.
func (p *Payload) Total() int {
	return len(p.Deleted) + len(p.NotForSale) + len(p.OutOfStock) + len(p.StockUpdates)
}

// Counts returns per-category sizes keyed by the payload's JSON keys.
func (p *Payload) Counts() map[string]int {
	return map[string]int{
		DeletedKey:      len(p.Deleted),
		NotForSaleKey:   len(p.NotForSale),
		OutOfStockKey:   len(p.OutOfStock),
		StockUpdatesKey: len(p.StockUpdates),
	}
}

// BuildSyncPayload computes the four outbound delta sets from records whose
// requires_sync flag is still raised.
func BuildSyncPayload(db *gorm.DB) (*Payload, error) {
	payload := newPayload()

	var tombstones []entity.DeletedItem
	if err := db.Where("requires_sync = ?", true).Find(&tombstones).Error; err != nil {
		return nil, err
	}
	for _, d := range tombstones {
		payload.Deleted = append(payload.Deleted, DeletedUpdate{Code: d.Code, Name: d.Name})
	}

	var notForSale []entity.Item
	if err := db.Where("requires_sync = ? AND status = ?", true, entity.StatusNotForSale).
		Find(&notForSale).Error; err != nil {
		return nil, err
	}
	for _, it := range notForSale {
		payload.NotForSale = append(payload.NotForSale, ItemUpdate{Code: it.Code, Name: it.Name})
	}

	var outOfStock []entity.Item
	if err := db.Where("requires_sync = ? AND status = ? AND units_in_stock <= 0", true, entity.StatusForSale).
		Find(&outOfStock).Error; err != nil {
		return nil, err
	}
	for _, it := range outOfStock {
		payload.OutOfStock = append(payload.OutOfStock, ItemUpdate{Code: it.Code, Name: it.Name})
	}

	updates, err := sellableUpdates(db, true)
	if err != nil {
		return nil, err
	}
	payload.StockUpdates = updates

	return payload, nil
}

// BuildResetPayload is the reseed variant: the complete for-sale, in-stock
// catalog with no requires_sync restriction, other categories empty.
func BuildResetPayload(db *gorm.DB) (*Payload, error) {
	payload := newPayload()
	updates, err := sellableUpdates(db, false)
	if err != nil {
		return nil, err
	}
	payload.StockUpdates = updates
	return payload, nil
}

func sellableUpdates(db *gorm.DB, pendingOnly bool) ([]StockUpdate, error) {
	query := db.Preload("Vendor").Where("status = ? AND units_in_stock > 0", entity.StatusForSale)
	if pendingOnly {
		query = query.Where("requires_sync = ?", true)
	}
	var items []entity.Item
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	updates := make([]StockUpdate, 0, len(items))
	for _, it := range items {
		vendorName := ""
		if it.Vendor != nil {
			vendorName = it.Vendor.Name
		}
		updates = append(updates, StockUpdate{
			Code:         it.Code,
			Name:         it.Name,
			Description:  it.Description,
			VendorName:   vendorName,
			PricePerUnit: it.PricePerUnit,
			UnitsInStock: it.UnitsInStock,
		})
	}
	return updates, nil
}

func newPayload() *Payload {
	// Empty categories must marshal as [] rather than null.
	return &Payload{
		Deleted:      make([]DeletedUpdate, 0),
		NotForSale:   make([]ItemUpdate, 0),
		OutOfStock:   make([]ItemUpdate, 0),
		StockUpdates: make([]StockUpdate, 0),
	}
}
