package entity

// StoreConnectionSettings holds the connection parameters of the remote
// storefront. A single row in practice; the data model does not preclude
// more, but the engine targets one active connection.
type StoreConnectionSettings struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	StoreName   string `gorm:"column:store_name;type:varchar(50)" json:"store_name"`
	IPv4Address string `gorm:"column:ipv4_address;type:varchar(64)" json:"ipv4_address"`
	PortNumber  int    `gorm:"column:port_number;default:443" json:"port_number"`
	BearerToken string `gorm:"column:bearer_token;type:varchar(1024)" json:"bearer_token"`
}

func (StoreConnectionSettings) TableName() string {
	return "store_connection_settings"
}
