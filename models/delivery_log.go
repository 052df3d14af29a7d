package models

import "time"

const (
	DELIVERY_STATUS_SENT   = "sent"
	DELIVERY_STATUS_FAILED = "failed"
)

// DeliveryLog records the outcome of one dispatched message (receipt or reset
// notice). Written by the receipt worker and the password flow so the operator
// can audit deliveries without digging through server logs.
type DeliveryLog struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Kind        string     `gorm:"not null;index" json:"kind"`    // "receipt" | "reset"
	Channel     string     `gorm:"not null;index" json:"channel"` // "email" | "whatsapp"
	Recipient   string     `gorm:"not null" json:"recipient"`
	Provider    string     `gorm:"default:''" json:"provider"`
	Status      string     `gorm:"not null;index" json:"status"`
	Diagnostic  string     `gorm:"type:text" json:"diagnostic"`
	Transaction string     `gorm:"default:''" json:"transaction"` // transaction number, receipts only
	CreatedAt   *time.Time `json:"created_at"`
}
