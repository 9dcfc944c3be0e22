package models

import (
	"gorm.io/gorm"
)

// OrderStatus defines the payment state of an order
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusRefunded OrderStatus = "REFUNDED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// Order is the storefront order the payment subsystem settles. Item lines,
// shipping and the rest of the checkout flow live outside this service.
type Order struct {
	gorm.Model
	UserID          uint        `gorm:"not null;index" json:"userId"`
	OrderNumber     string      `gorm:"type:varchar(40);uniqueIndex;not null" json:"orderNumber"`
	TotalAmount     float64     `gorm:"not null" json:"totalAmount"`
	Status          OrderStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	ShippingAddress string      `gorm:"type:text" json:"shippingAddress"`
	IsDeleted       bool        `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}
