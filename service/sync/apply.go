package sync

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"malldepot/model/entity"
)

// ApplyResult summarises the stock-application phase of a run.
type ApplyResult struct {
	Success      bool
	Message      string
	IssuesRaised int
}

// StorePurchases persists the batch as immutable purchase-history rows in a
// single transaction: the first write error rolls everything back and fails
// the batch, so the log never carries a partial batch.
func StorePurchases(db *gorm.DB, events []PurchaseEvent, now time.Time) error {
	if len(events) == 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, ev := range events {
			record := entity.PurchaseHistory{
				PurchaseCode: ev.PurchaseCode,
				ItemCode:     ev.Code,
				ItemName:     ev.Name,
				VendorName:   ev.VendorName,
				Quantity:     ev.Quantity,
				PricePerUnit: ev.PricePerUnit,
				TotalPrice:   ev.TotalPrice,
				PurchaseTime: ev.PurchaseTime,
				LoadTime:     now,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("store purchase %s: %w", ev.PurchaseCode, err)
			}
		}
		return nil
	})
}

// ApplyStock applies purchase events to the stock, strictly in arrival
// order. Unknown codes and purchases on deleted items raise issues without
// touching any record; live items have their quantity decreased, clamped at
// zero with an underflow issue, and their purchased-units counter increased
// by the full purchased amount. Any mutation marks the item for the next
// outbound sync. Issues never fail the run; a database error aborts it.
func ApplyStock(db *gorm.DB, events []PurchaseEvent, now time.Time) (ApplyResult, error) {
	result := ApplyResult{Success: true, Message: "Stock data updated successfully."}

	for _, ev := range events {
		err := db.Transaction(func(tx *gorm.DB) error {
			var item entity.Item
			itemErr := tx.Where("code = ?", ev.Code).First(&item).Error
			if itemErr != nil && !errors.Is(itemErr, gorm.ErrRecordNotFound) {
				return itemErr
			}

			if errors.Is(itemErr, gorm.ErrRecordNotFound) {
				var deleted entity.DeletedItem
				delErr := tx.Where("code = ?", ev.Code).First(&deleted).Error
				if delErr != nil && !errors.Is(delErr, gorm.ErrRecordNotFound) {
					return delErr
				}
				if errors.Is(delErr, gorm.ErrRecordNotFound) {
					result.IssuesRaised++
					return raiseIssue(tx, fmt.Sprintf("Item with code %s and name %s not found.", ev.Code, ev.Name), now)
				}
				result.IssuesRaised++
				return raiseIssue(tx, fmt.Sprintf("Purchase on deleted item: %s %s", ev.Code, deleted.Name), now)
			}

			newStock := item.UnitsInStock - ev.Quantity
			if newStock <= 0 {
				msg := fmt.Sprintf("Running out of stock for: %s %s, balance is %d units.", ev.Code, item.Name, newStock)
				if err := raiseIssue(tx, msg, now); err != nil {
					return err
				}
				result.IssuesRaised++
				item.UnitsInStock = 0
			} else {
				item.UnitsInStock = newStock
			}

			item.UnitsPurchased += ev.Quantity
			item.RequiresSync = true
			return tx.Save(&item).Error
		})
		if err != nil {
			result.Success = false
			result.Message = "Failed to update stock data due to a database error."
			return result, fmt.Errorf("apply purchase for item %s: %w", ev.Code, err)
		}
	}
	return result, nil
}

// RaiseMalformedIssues records one issue per purchase row the store sent
// that could not be decoded.
func RaiseMalformedIssues(db *gorm.DB, count int, now time.Time) {
	for i := 0; i < count; i++ {
		_ = raiseIssue(db, "Malformed purchase event received from store.", now)
	}
}

func raiseIssue(db *gorm.DB, message string, now time.Time) error {
	issue := entity.Issue{
		Message:    message,
		RaisedTime: now,
		Status:     entity.IssueUnresolved,
	}
	return db.Create(&issue).Error
}
