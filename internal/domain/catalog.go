package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// StringList stores a free-form list of strings as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported StringList column type %T", value)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

type Category struct {
	ID          int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Name        string    `gorm:"size:100;uniqueIndex" json:"name" form:"name"`
	Slug        string    `gorm:"size:100;uniqueIndex" json:"slug" form:"slug"`
	Description string    `json:"description" form:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

type Tag struct {
	ID        int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Name      string    `gorm:"size:50;uniqueIndex" json:"name" form:"name"`
	Slug      string    `gorm:"size:50;uniqueIndex" json:"slug" form:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}

type Product struct {
	ID               int64            `gorm:"primaryKey" json:"id,string" form:"id"`
	Name             string           `gorm:"size:200;index" json:"name" form:"name"`
	Slug             string           `gorm:"size:200;uniqueIndex" json:"slug" form:"slug"`
	Description      string           `json:"description" form:"description"`
	ShortDescription string           `gorm:"size:500" json:"short_description" form:"short_description"`
	Price            decimal.Decimal  `gorm:"type:decimal(10,2)" json:"price"`
	OriginalPrice    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"original_price"`
	// Derived on every save, never supplied directly.
	DiscountPercentage int    `json:"discount_percentage"`
	Image              string `gorm:"size:1024" json:"image"`
	ImageURL           string `gorm:"size:1024" json:"image_url" form:"image_url"`
	// Optional per-product payment QR, overrides the site default.
	PaymentQR    string     `gorm:"size:1024" json:"payment_qr" form:"payment_qr"`
	CategoryID   *int64     `gorm:"index" json:"category_id,string"`
	Category     *Category  `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Tags         []Tag      `gorm:"many2many:product_tags" json:"tags,omitempty"`
	BadgeText    string     `gorm:"size:100" json:"badge_text" form:"badge_text"`
	Features     StringList `gorm:"type:json" json:"features"`
	WhatIncluded StringList `gorm:"type:json" json:"what_included"`
	PerfectFor   StringList `gorm:"type:json" json:"perfect_for"`
	IsActive     bool       `gorm:"default:true;index" json:"is_active" form:"is_active"`
	IsFeatured   bool       `gorm:"default:false;index" json:"is_featured" form:"is_featured"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// DisplayImage returns the uploaded image path when present, otherwise the
// external URL.
func (p *Product) DisplayImage() string {
	if p.Image != "" {
		return p.Image
	}
	return p.ImageURL
}
