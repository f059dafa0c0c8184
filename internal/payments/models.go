package payments

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentTransaction records one payment attempt against an
// application. Applications can accumulate several transactions
// (failed retries, refunds); payment state never drives the
// application state machine directly.
type PaymentTransaction struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ApplicationID uuid.UUID `json:"application_id" gorm:"type:uuid;not null;index"`
	BrandID       uuid.UUID `json:"brand_id" gorm:"type:uuid;not null;index"`
	Amount        float64   `json:"amount" gorm:"not null"`
	Currency      string    `json:"currency" gorm:"size:3;not null;default:'INR'"`
	Method        string    `json:"method" gorm:"size:40;not null"`
	Reference     string    `json:"reference" gorm:"size:255"`
	CouponCode    string    `json:"coupon_code,omitempty" gorm:"size:50"`
	Discount      float64   `json:"discount" gorm:"not null;default:0"`
	Status        Status    `json:"status" gorm:"type:varchar(20);not null;default:'processing';index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

func (p *PaymentTransaction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CreatePaymentRequest starts a payment against an application
type CreatePaymentRequest struct {
	ApplicationID string  `json:"application_id" validate:"required,uuid"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"omitempty,len=3"`
	Method        string  `json:"method" validate:"required,max=40"`
	Reference     string  `json:"reference" validate:"omitempty,max=255"`
	CouponCode    string  `json:"coupon_code" validate:"omitempty,max=50"`
}

// UpdateStatusRequest moves a transaction through its state machine
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
