package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusVerified  = "verified"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses is the full set of accepted order states. Transitions are
// deliberately unrestricted, see orders.Service.UpdateStatus.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusVerified,
	OrderStatusCompleted,
	OrderStatusFailed,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is a known order state.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Order struct {
	ID           int64  `gorm:"primaryKey" json:"id,string" form:"id"`
	Email        string `gorm:"size:254;index" json:"email" form:"email"`
	Phone        string `gorm:"size:20" json:"phone" form:"phone"`
	CustomerName string `gorm:"size:200" json:"customer_name" form:"customer_name"`

	ProductID int64    `gorm:"index;not null" json:"product_id,string" form:"product_id"`
	Product   *Product `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantity  int      `gorm:"default:1" json:"quantity" form:"quantity"`

	// UnitPrice is copied from the product at creation time so concurrent
	// catalog edits never touch existing orders.
	UnitPrice      decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount_amount"`

	BumpOfferAdded bool             `json:"bump_offer_added" form:"bump_offer_added"`
	BumpOfferPrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"bump_offer_price"`

	Status    string `gorm:"size:20;default:pending;index" json:"status"`
	PaymentID string `gorm:"size:200" json:"payment_id"`
	// Relative path of the uploaded payment screenshot, if any.
	PaymentScreenshot string `gorm:"size:1024" json:"payment_screenshot"`

	DownloadLink string `gorm:"size:1024" json:"download_link"`
	DownloadSent bool   `json:"download_sent"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// ComputeTotal recomputes TotalAmount from the stored pricing fields.
// Applied on every write.
func (o *Order) ComputeTotal() {
	qty := o.Quantity
	if qty < 1 {
		qty = 1
	}
	total := o.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
	if o.BumpOfferAdded && o.BumpOfferPrice != nil {
		total = total.Add(*o.BumpOfferPrice)
	}
	o.TotalAmount = total
}
