package models

import "time"

// Ambassador is a shop-owned profile awaiting or holding approval.
type Ambassador struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ShopDomain string    `gorm:"column:shop_domain;type:varchar(511);not null;index:ambassadors_shop_domain_idx"`
	Title      string    `gorm:"column:title;type:varchar(511);not null"`
	Email      string    `gorm:"column:email;type:varchar(511);not null"`
	Phone      string    `gorm:"column:phone;type:varchar(511);not null"`
	Plushie    string    `gorm:"column:plushie;type:varchar(511);not null"`
	Instagram  *string   `gorm:"column:instagram;type:varchar(511)"`
	Twitter    *string   `gorm:"column:twitter;type:varchar(511)"`
	Tiktok     *string   `gorm:"column:tiktok;type:varchar(511)"`
	Facebook   *string   `gorm:"column:facebook;type:varchar(511)"`
	Youtube    *string   `gorm:"column:youtube;type:varchar(511)"`
	Birth      *string   `gorm:"column:birth;type:varchar(511)"`
	Discovery  *string   `gorm:"column:discovery;type:varchar(511)"`
	Hobbies    *string   `gorm:"column:hobbies;type:varchar(511)"`
	Bio        *string   `gorm:"column:bio;type:varchar(1023)"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	IsActive   bool      `gorm:"column:is_active;not null;default:false"`
}

func (Ambassador) TableName() string { return "ambassadors" }
