package models

import (
	"gorm.io/gorm"
)

// UserSavedVpa is a payment address the user chose to remember. At most one
// row per user carries is_default=true; the flip is done inside one DB
// transaction in the controller.
type UserSavedVpa struct {
	gorm.Model
	UserID    uint   `gorm:"not null;index:idx_user_vpa,unique" json:"userId"`
	Vpa       string `gorm:"type:varchar(255);not null;index:idx_user_vpa,unique" json:"vpa"`
	Label     string `gorm:"type:varchar(100)" json:"label"`
	IsDefault bool   `gorm:"default:false" json:"isDefault"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserSavedVpa) TableName() string {
	return "user_saved_vpas"
}
