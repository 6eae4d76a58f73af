package model

import "time"

// フラット値引きクーポン。
// MinimumCartValue 未満のカートには適用できない。
type Coupon struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string     `gorm:"type:varchar(255);not null" json:"name"`
	CouponCode       string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"coupon_code"`
	DiscountValue    int64      `gorm:"not null" json:"discount_value"`
	MinimumCartValue int64      `gorm:"not null;default:0" json:"minimum_cart_value"`
	IsActive         bool       `gorm:"not null;default:true" json:"is_active"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	CreatedAt        time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
