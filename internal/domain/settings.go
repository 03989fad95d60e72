package domain

import (
	"time"

	"gorm.io/datatypes"
)

// SiteSettingsID is the fixed identity of the settings singleton.
const SiteSettingsID int64 = 1

type SiteSettings struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	SiteName    string `gorm:"size:200" json:"site_name" form:"site_name"`
	SiteTagline string `gorm:"size:200" json:"site_tagline" form:"site_tagline"`

	WhatsappNumber string `gorm:"size:20" json:"whatsapp_number" form:"whatsapp_number"`
	InstagramURL   string `gorm:"size:500" json:"instagram_url" form:"instagram_url"`
	YoutubeURL     string `gorm:"size:500" json:"youtube_url" form:"youtube_url"`

	FooterLinks     datatypes.JSONMap `json:"footer_links"`
	MetaDescription string            `json:"meta_description" form:"meta_description"`

	// Optional overrides for the configured SMTP addresses.
	SupportEmail string `gorm:"size:254" json:"support_email" form:"support_email"`
	FromEmail    string `gorm:"size:254" json:"from_email" form:"from_email"`

	// Fallback payment QR shown when a product carries no override.
	DefaultPaymentQR string `gorm:"size:1024" json:"default_payment_qr" form:"default_payment_qr"`

	PrivacyPolicy  string `json:"privacy_policy" form:"privacy_policy"`
	TermsOfService string `json:"terms_of_service" form:"terms_of_service"`
	RefundPolicy   string `json:"refund_policy" form:"refund_policy"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SiteSettings) TableName() string {
	return "site_settings"
}
