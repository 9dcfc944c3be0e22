package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UpiTransactionStatus defines the lifecycle state of a UPI collect request
type UpiTransactionStatus string

const (
	UpiStatusPending  UpiTransactionStatus = "PENDING"
	UpiStatusSuccess  UpiTransactionStatus = "SUCCESS"
	UpiStatusFailed   UpiTransactionStatus = "FAILED"
	UpiStatusRefunded UpiTransactionStatus = "REFUNDED"
)

// IsTerminal reports whether no further provider-driven transition is allowed.
// SUCCESS still accepts the admin refund transition.
func (s UpiTransactionStatus) IsTerminal() bool {
	return s == UpiStatusSuccess || s == UpiStatusFailed || s == UpiStatusRefunded
}

// UpiTransaction is one collect request against an order. Rows are never
// deleted; they are the payment audit trail.
type UpiTransaction struct {
	gorm.Model
	OrderID uint    `gorm:"not null;index" json:"orderId"`
	UserID  uint    `gorm:"not null;index" json:"userId"`
	Vpa     string  `gorm:"type:varchar(255);not null" json:"vpa"`
	Amount  float64 `gorm:"not null" json:"amount"`

	Status UpiTransactionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	// MerchantTxnID is our reference sent to the provider, ProviderReferenceID
	// is theirs, set once the collect request is acknowledged.
	MerchantTxnID       string `gorm:"type:varchar(64);uniqueIndex;not null" json:"merchantTxnId"`
	Provider            string `gorm:"type:varchar(20);not null" json:"provider"`
	ProviderReferenceID string `gorm:"type:varchar(100);index" json:"providerReferenceId"`

	FailureReason     string         `gorm:"type:text" json:"failureReason"`
	WebhookPayloadRaw datatypes.JSON `gorm:"type:jsonb" json:"-"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}

func (UpiTransaction) TableName() string {
	return "upi_transactions"
}
