package models

import "time"

// ShopSession is an offline access token granted to the app by a shop.
type ShopSession struct {
	ID          string     `gorm:"column:id;type:varchar(255);primaryKey"`
	Shop        string     `gorm:"column:shop;type:varchar(255);not null;uniqueIndex:shop_sessions_shop_key"`
	AccessToken string     `gorm:"column:access_token;type:varchar(255);not null"`
	Scope       *string    `gorm:"column:scope;type:varchar(1024)"`
	IsOnline    bool       `gorm:"column:is_online;not null;default:false"`
	ExpiresAt   *time.Time `gorm:"column:expires_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (ShopSession) TableName() string { return "shop_sessions" }
