package app

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/skillcart/skillcart/internal/catalog"
	"github.com/skillcart/skillcart/internal/domain"
	"github.com/skillcart/skillcart/internal/settings"
	"github.com/skillcart/skillcart/pkg/common"
)

// checkSettings ensures the site-settings singleton row exists.
func (a *Application) checkSettings() {
	if _, err := settings.NewService(a.gormDB).Get(context.Background()); err != nil {
		zap.L().Error("failed to initialize site settings", zap.Error(err))
		return
	}
	zap.L().Info("site settings initialized")
}

// checkCatalog seeds a starter catalog when the products table is empty,
// so a fresh install has something to show on the storefront.
func (a *Application) checkCatalog() {
	var count int64
	if err := a.gormDB.Model(&domain.Product{}).Count(&count).Error; err != nil {
		zap.L().Error("failed to query product count", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	repo := catalog.NewGormRepository(a.gormDB)
	ctx := context.Background()

	courses := &domain.Category{
		ID:          common.UUIDint64(),
		Name:        "Online Courses",
		Description: "Self-paced video courses",
	}
	templates := &domain.Category{
		ID:          common.UUIDint64(),
		Name:        "Templates",
		Description: "Ready-to-use design and document templates",
	}
	for _, c := range []*domain.Category{courses, templates} {
		if err := repo.SaveCategory(ctx, c); err != nil {
			zap.L().Error("failed to seed category", zap.String("name", c.Name), zap.Error(err))
			return
		}
	}

	bestseller := &domain.Tag{ID: common.UUIDint64(), Name: "Bestseller"}
	beginner := &domain.Tag{ID: common.UUIDint64(), Name: "Beginner Friendly"}
	for _, t := range []*domain.Tag{bestseller, beginner} {
		if err := repo.SaveTag(ctx, t); err != nil {
			zap.L().Error("failed to seed tag", zap.String("name", t.Name), zap.Error(err))
			return
		}
	}

	originalPrice := decimal.NewFromInt(1490)
	products := []struct {
		p    *domain.Product
		tags []int64
	}{
		{
			p: &domain.Product{
				ID:                 common.UUIDint64(),
				Name:               "Instagram Growth Masterclass",
				ShortDescription:   "Grow your audience from zero with proven content systems.",
				Description:        "A complete video course covering content strategy, reels, and monetization.",
				OriginalPrice:      &originalPrice,
				DiscountPercentage: 90,
				CategoryID:         &courses.ID,
				Features:           domain.StringList{"6+ hours of video", "Lifetime access", "Certificate"},
				WhatIncluded:       domain.StringList{"Video lessons", "Worksheets", "Community access"},
				PerfectFor:         domain.StringList{"Creators", "Small businesses"},
				BadgeText:          "Most Popular",
				IsActive:           true,
				IsFeatured:         true,
			},
			tags: []int64{bestseller.ID, beginner.ID},
		},
		{
			p: &domain.Product{
				ID:               common.UUIDint64(),
				Name:             "Resume Template Bundle",
				ShortDescription: "50 ATS-friendly resume templates.",
				Description:      "Editable resume and cover letter templates for every profession.",
				Price:            decimal.NewFromInt(199),
				CategoryID:       &templates.ID,
				Features:         domain.StringList{"50 templates", "Editable in Word and Canva"},
				IsActive:         true,
			},
			tags: []int64{beginner.ID},
		},
	}
	for _, item := range products {
		if err := repo.SaveProduct(ctx, item.p, item.tags); err != nil {
			zap.L().Error("failed to seed product", zap.String("name", item.p.Name), zap.Error(err))
			return
		}
	}

	zap.L().Info("seeded starter catalog",
		zap.Int("categories", 2), zap.Int("tags", 2), zap.Int("products", len(products)))
}
