// Package settings provides the site-settings singleton. All reads and
// writes are coerced to the single fixed identity, so a record always
// exists after the first access and no duplicates can appear.
package settings

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillcart/skillcart/internal/domain"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func defaults() *domain.SiteSettings {
	return &domain.SiteSettings{
		ID:             domain.SiteSettingsID,
		SiteName:       "SKILCART",
		SiteTagline:    "Best Digital Product In India",
		WhatsappNumber: "919712237383",
		InstagramURL:   "https://instagram.com/mr_sebby_yt",
		YoutubeURL:     "https://youtube.com/@mr_sebby",
		FooterLinks:    datatypes.JSONMap{},
	}
}

// Get returns the settings record, creating it with defaults on first
// access. Concurrent first reads race on the insert; the conflict clause
// makes the loser fall through to the stored row.
func (s *Service) Get(ctx context.Context) (*domain.SiteSettings, error) {
	var out domain.SiteSettings
	err := s.db.WithContext(ctx).Where("id = ?", domain.SiteSettingsID).First(&out).Error
	if err == nil {
		return &out, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "settings get")
	}

	seed := defaults()
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(seed).Error; err != nil {
		return nil, errors.Wrap(err, "settings init")
	}
	if err := s.db.WithContext(ctx).Where("id = ?", domain.SiteSettingsID).First(&out).Error; err != nil {
		return nil, errors.Wrap(err, "settings reload")
	}
	return &out, nil
}

// Update persists changes, pinning the identity regardless of the payload.
// The mutable fields overwrite the stored row; timestamps stay with the
// record. Deletion is not offered by policy.
func (s *Service) Update(ctx context.Context, in *domain.SiteSettings) (*domain.SiteSettings, error) {
	stored, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	stored.SiteName = in.SiteName
	stored.SiteTagline = in.SiteTagline
	stored.WhatsappNumber = in.WhatsappNumber
	stored.InstagramURL = in.InstagramURL
	stored.YoutubeURL = in.YoutubeURL
	stored.FooterLinks = in.FooterLinks
	stored.MetaDescription = in.MetaDescription
	stored.SupportEmail = in.SupportEmail
	stored.FromEmail = in.FromEmail
	stored.DefaultPaymentQR = in.DefaultPaymentQR
	stored.PrivacyPolicy = in.PrivacyPolicy
	stored.TermsOfService = in.TermsOfService
	stored.RefundPolicy = in.RefundPolicy

	if err := s.db.WithContext(ctx).Save(stored).Error; err != nil {
		return nil, errors.Wrap(err, "settings update")
	}
	return s.Get(ctx)
}
