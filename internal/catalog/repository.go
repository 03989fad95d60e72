package catalog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/skillcart/skillcart/internal/domain"
)

// ErrNotFound is returned for unknown slugs and ids.
var ErrNotFound = errors.New("catalog: not found")

// RelatedLimit caps the recommendation query result.
const RelatedLimit = 5

// ProductFilter narrows product listings. Zero values mean "no filter".
type ProductFilter struct {
	CategorySlug string
	CategoryID   int64
	TagSlug      string
	TagID        int64
	Featured     *bool
	Search       string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	// OrderBy is one of created_at, price, name; Desc flips direction.
	OrderBy string
	Desc    bool
	// IncludeInactive lifts the is_active filter for admin listings.
	IncludeInactive bool
}

// Repository handles catalog data access.
type Repository interface {
	ListProducts(ctx context.Context, f ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	RelatedProducts(ctx context.Context, p *domain.Product) ([]domain.Product, error)
	SaveProduct(ctx context.Context, p *domain.Product, tagIDs []int64) error
	DeleteProduct(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	SaveCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	SaveTag(ctx context.Context, t *domain.Tag) error
	DeleteTag(ctx context.Context, id int64) error
}

// GormRepository is the GORM implementation of Repository.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

var orderColumns = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"name":       "name",
}

func (r *GormRepository) activeProducts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("products.is_active = ?", true).
		Preload("Category").Preload("Tags")
}

func (r *GormRepository) ListProducts(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	q := r.activeProducts(ctx)
	if f.IncludeInactive {
		q = r.db.WithContext(ctx).Model(&domain.Product{}).
			Preload("Category").Preload("Tags")
	}

	if f.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	} else if f.CategoryID != 0 {
		q = q.Where("products.category_id = ?", f.CategoryID)
	}
	if f.TagSlug != "" || f.TagID != 0 {
		q = q.Joins("JOIN product_tags pt ON pt.product_id = products.id").
			Joins("JOIN tags ON tags.id = pt.tag_id")
		if f.TagSlug != "" {
			q = q.Where("tags.slug = ?", f.TagSlug)
		} else {
			q = q.Where("tags.id = ?", f.TagID)
		}
		q = q.Distinct("products.*")
	}
	if f.Featured != nil {
		q = q.Where("products.is_featured = ?", *f.Featured)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(products.short_description) LIKE ?",
			like, like, like)
	}
	if f.MinPrice != nil {
		q = q.Where("products.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("products.price <= ?", *f.MaxPrice)
	}

	col, okCol := orderColumns[f.OrderBy]
	if !okCol {
		col, f.Desc = "created_at", true
	}
	dir := " ASC"
	if f.Desc {
		dir = " DESC"
	}

	var products []domain.Product
	if err := q.Order("products." + col + dir).Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

func (r *GormRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Preload("Category").Preload("Tags").
		Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get product")
	}
	return &p, nil
}

func (r *GormRepository) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Preload("Category").Preload("Tags").
		Where("slug = ? AND is_active = ?", slug, true).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get product by slug")
	}
	return &p, nil
}

// RelatedProducts returns up to RelatedLimit other active products,
// same-category matches first, then products sharing any tag.
func (r *GormRepository) RelatedProducts(ctx context.Context, p *domain.Product) ([]domain.Product, error) {
	var related []domain.Product

	if p.CategoryID != nil {
		err := r.activeProducts(ctx).
			Where("products.id != ?", p.ID).
			Where("products.category_id = ?", *p.CategoryID).
			Order("products.created_at DESC").
			Limit(RelatedLimit).
			Find(&related).Error
		if err != nil {
			return nil, errors.Wrap(err, "related by category")
		}
	}

	if len(related) < RelatedLimit && len(p.Tags) > 0 {
		tagIDs := make([]int64, 0, len(p.Tags))
		for _, t := range p.Tags {
			tagIDs = append(tagIDs, t.ID)
		}
		var byTag []domain.Product
		err := r.activeProducts(ctx).
			Joins("JOIN product_tags pt ON pt.product_id = products.id").
			Where("pt.tag_id IN ?", tagIDs).
			Where("products.id != ?", p.ID).
			Distinct("products.*").
			Order("products.created_at DESC").
			Limit(RelatedLimit).
			Find(&byTag).Error
		if err != nil {
			return nil, errors.Wrap(err, "related by tags")
		}
		seen := make(map[int64]bool, len(related))
		for _, rp := range related {
			seen[rp.ID] = true
		}
		for _, rp := range byTag {
			if len(related) >= RelatedLimit {
				break
			}
			if !seen[rp.ID] {
				seen[rp.ID] = true
				related = append(related, rp)
			}
		}
	}

	if len(related) > RelatedLimit {
		related = related[:RelatedLimit]
	}
	return related, nil
}

// SaveProduct applies the slug and pricing derivations and persists the
// product together with its tag set. A nil tagIDs leaves tags untouched.
func (r *GormRepository) SaveProduct(ctx context.Context, p *domain.Product, tagIDs []int64) error {
	p.Slug = FillSlug(p.Name, p.Slug)
	ApplyPricing(p)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Category").Save(p).Error; err != nil {
			return errors.Wrap(err, "save product")
		}
		if tagIDs == nil {
			return nil
		}
		var tags []domain.Tag
		if len(tagIDs) > 0 {
			if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
				return errors.Wrap(err, "load tags")
			}
		}
		if err := tx.Model(p).Association("Tags").Replace(tags); err != nil {
			return errors.Wrap(err, "replace tags")
		}
		return nil
	})
}

func (r *GormRepository) DeleteProduct(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{}).Error
}

func (r *GormRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}

func (r *GormRepository) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get category")
	}
	return &c, nil
}

func (r *GormRepository) SaveCategory(ctx context.Context, c *domain.Category) error {
	c.Slug = FillSlug(c.Name, c.Slug)
	return errors.Wrap(r.db.WithContext(ctx).Save(c).Error, "save category")
}

// DeleteCategory nullifies the category on its products before removal.
func (r *GormRepository) DeleteCategory(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return errors.Wrap(err, "detach products")
		}
		return errors.Wrap(tx.Where("id = ?", id).Delete(&domain.Category{}).Error, "delete category")
	})
}

func (r *GormRepository) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, errors.Wrap(err, "list tags")
	}
	return tags, nil
}

func (r *GormRepository) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	var t domain.Tag
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get tag")
	}
	return &t, nil
}

func (r *GormRepository) SaveTag(ctx context.Context, t *domain.Tag) error {
	t.Slug = FillSlug(t.Name, t.Slug)
	return errors.Wrap(r.db.WithContext(ctx).Save(t).Error, "save tag")
}

func (r *GormRepository) DeleteTag(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Tag{}).Error
}
