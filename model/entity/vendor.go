package entity

// VendorStatus is the lifecycle status of a vendor.
type VendorStatus string

const (
	VendorActive VendorStatus = "ACTIVE"
	VendorClosed VendorStatus = "CLOSED"
)

type Vendor struct {
	ID           uint         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string       `gorm:"column:name;type:varchar(128);not null;uniqueIndex" json:"name"`
	Address      string       `gorm:"column:address;type:varchar(256)" json:"address"`
	Country      string       `gorm:"column:country;type:varchar(50)" json:"country"`
	ContactPhone string       `gorm:"column:contact_phone;type:varchar(20)" json:"contact_phone"`
	ContactEmail string       `gorm:"column:contact_email;type:varchar(120)" json:"contact_email"`
	Status       VendorStatus `gorm:"column:status;type:varchar(16);not null;default:ACTIVE" json:"status"`
	UserID       *uint        `gorm:"column:user_id" json:"user_id,omitempty"`
}

func (Vendor) TableName() string {
	return "vendors"
}
