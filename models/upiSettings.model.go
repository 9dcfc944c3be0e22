package models

import (
	"gorm.io/gorm"
)

// UpiProvider identifies which gateway implementation a settings row drives
type UpiProvider string

const (
	ProviderRazorpay UpiProvider = "razorpay"
	ProviderPayu     UpiProvider = "payu"
	ProviderPhonepe  UpiProvider = "phonepe"
	ProviderGpay     UpiProvider = "gpay"
	ProviderMock     UpiProvider = "mock"
)

// IsValid reports whether the provider name is one we can dispatch to
func (p UpiProvider) IsValid() bool {
	switch p {
	case ProviderRazorpay, ProviderPayu, ProviderPhonepe, ProviderGpay, ProviderMock:
		return true
	}
	return false
}

// UpiSettings is one gateway configuration. The four credential columns hold
// AES-GCM ciphertext, never plaintext; decryption happens only while building
// a provider call. At most one row is active at a time.
type UpiSettings struct {
	gorm.Model
	Name        string      `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Provider    UpiProvider `gorm:"type:varchar(20);not null" json:"provider"`

	ApiKey        string `gorm:"type:text;not null" json:"-"`
	ApiSecret     string `gorm:"type:text;not null" json:"-"`
	MerchantID    string `gorm:"type:text;not null" json:"-"`
	WebhookSecret string `gorm:"type:text;not null" json:"-"`

	IsTestMode     bool   `gorm:"default:true" json:"isTestMode"`
	IsActive       bool   `gorm:"default:false;index" json:"isActive"`
	WebhookURL     string `gorm:"type:varchar(255)" json:"webhookUrl"`
	TimeoutMinutes int    `gorm:"default:5" json:"timeoutMinutes"`
	MaxRetries     int    `gorm:"default:3" json:"maxRetries"`
	IsDeleted      bool   `gorm:"default:false" json:"isDeleted"`
}

func (UpiSettings) TableName() string {
	return "upi_settings"
}
