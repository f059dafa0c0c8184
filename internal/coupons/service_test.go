package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, coupon *Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *mockRepository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Coupon), args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Coupon), args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, createdBy string) ([]Coupon, error) {
	args := m.Called(ctx, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Coupon), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, coupon *Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *mockRepository) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) IncrementUsage(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestCalculateDiscount(t *testing.T) {
	tests := []struct {
		name   string
		coupon Coupon
		amount float64
		want   float64
	}{
		{
			name:   "percentage",
			coupon: Coupon{Type: TypePercentage, Value: 10},
			amount: 15000,
			want:   1500,
		},
		{
			name:   "percentage capped by max discount",
			coupon: Coupon{Type: TypePercentage, Value: 50, MaxDiscountAmount: floatPtr(2000)},
			amount: 15000,
			want:   2000,
		},
		{
			name:   "percentage under the cap",
			coupon: Coupon{Type: TypePercentage, Value: 10, MaxDiscountAmount: floatPtr(2000)},
			amount: 15000,
			want:   1500,
		},
		{
			name:   "fixed",
			coupon: Coupon{Type: TypeFixed, Value: 500},
			amount: 15000,
			want:   500,
		},
		{
			name:   "fixed never exceeds the amount",
			coupon: Coupon{Type: TypeFixed, Value: 500},
			amount: 300,
			want:   300,
		},
		{
			name:   "hundred percent",
			coupon: Coupon{Type: TypePercentage, Value: 100},
			amount: 15000,
			want:   15000,
		},
		{
			name:   "zero amount",
			coupon: Coupon{Type: TypePercentage, Value: 10},
			amount: 0,
			want:   0,
		},
		{
			name:   "unknown type grants nothing",
			coupon: Coupon{Type: CouponType("mystery"), Value: 10},
			amount: 15000,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDiscount(&tt.coupon, tt.amount)
			assert.InDelta(t, tt.want, got, 0.001)

			// idempotent: the same inputs always produce the same discount
			assert.Equal(t, got, CalculateDiscount(&tt.coupon, tt.amount))
		})
	}
}

func validCoupon() *Coupon {
	return &Coupon{
		ID:         uuid.New(),
		Code:       "SPRING10",
		Type:       TypePercentage,
		Value:      10,
		Scope:      ScopeAllBrands,
		Active:     true,
		ValidFrom:  time.Now().Add(-time.Hour),
		ValidUntil: time.Now().Add(24 * time.Hour),
	}
}

func TestValidate_HappyPath(t *testing.T) {
	repo := new(mockRepository)
	coupon := validCoupon()
	repo.On("GetByCode", mock.Anything, "SPRING10").Return(coupon, nil)

	svc := NewService(repo)
	result, err := svc.Validate(context.Background(), "SPRING10", uuid.New().String(), uuid.New().String(), 15000)

	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.InDelta(t, 1500, result.Discount, 0.001)
	assert.InDelta(t, 13500, result.FinalAmount, 0.001)
	repo.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything)
}

func TestValidate_Preconditions(t *testing.T) {
	brandID := uuid.New().String()
	exhibitionID := uuid.New().String()

	tests := []struct {
		name    string
		mutate  func(*Coupon)
		amount  float64
		wantErr error
	}{
		{
			name:    "inactive",
			mutate:  func(c *Coupon) { c.Active = false },
			amount:  15000,
			wantErr: ErrCouponInactive,
		},
		{
			name:    "not started",
			mutate:  func(c *Coupon) { c.ValidFrom = time.Now().Add(time.Hour) },
			amount:  15000,
			wantErr: ErrCouponNotStarted,
		},
		{
			name:    "expired",
			mutate:  func(c *Coupon) { c.ValidUntil = time.Now().Add(-time.Minute) },
			amount:  15000,
			wantErr: ErrCouponExpired,
		},
		{
			name: "usage limit exhausted",
			mutate: func(c *Coupon) {
				c.UsageLimit = intPtr(5)
				c.TimesUsed = 5
			},
			amount:  15000,
			wantErr: ErrUsageLimitReached,
		},
		{
			name:    "below minimum booking amount",
			mutate:  func(c *Coupon) { c.MinBookingAmount = 20000 },
			amount:  15000,
			wantErr: ErrMinAmountNotMet,
		},
		{
			name: "wrong exhibition",
			mutate: func(c *Coupon) {
				other := uuid.New()
				c.Scope = ScopeSpecificExhibition
				c.ExhibitionID = &other
			},
			amount:  15000,
			wantErr: ErrScopeMismatch,
		},
		{
			name: "wrong brand",
			mutate: func(c *Coupon) {
				other := uuid.New()
				c.Scope = ScopeSpecificBrand
				c.BrandID = &other
			},
			amount:  15000,
			wantErr: ErrScopeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)
			coupon := validCoupon()
			tt.mutate(coupon)
			repo.On("GetByCode", mock.Anything, "SPRING10").Return(coupon, nil)

			svc := NewService(repo)
			result, err := svc.Validate(context.Background(), "SPRING10", brandID, exhibitionID, tt.amount)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.NotNil(t, result)
			assert.False(t, result.Valid)
			assert.Equal(t, tt.amount, result.FinalAmount)
		})
	}
}

func TestValidate_ScopedCouponMatches(t *testing.T) {
	repo := new(mockRepository)
	coupon := validCoupon()
	exhibitionID := uuid.New()
	coupon.Scope = ScopeSpecificExhibition
	coupon.ExhibitionID = &exhibitionID
	repo.On("GetByCode", mock.Anything, "SPRING10").Return(coupon, nil)

	svc := NewService(repo)
	result, err := svc.Validate(context.Background(), "SPRING10", uuid.New().String(), exhibitionID.String(), 15000)

	assert.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestRedeem_ConsumesOneUse(t *testing.T) {
	repo := new(mockRepository)
	coupon := validCoupon()
	repo.On("GetByCode", mock.Anything, "SPRING10").Return(coupon, nil)
	repo.On("IncrementUsage", mock.Anything, coupon.ID.String()).Return(nil)

	svc := NewService(repo)
	result, err := svc.Redeem(context.Background(), "SPRING10", uuid.New().String(), uuid.New().String(), 15000)

	assert.NoError(t, err)
	assert.True(t, result.Valid)
	repo.AssertCalled(t, "IncrementUsage", mock.Anything, coupon.ID.String())
}

func TestRedeem_LastUseLostToConcurrentRedemption(t *testing.T) {
	repo := new(mockRepository)
	coupon := validCoupon()
	coupon.UsageLimit = intPtr(1)
	repo.On("GetByCode", mock.Anything, "SPRING10").Return(coupon, nil)
	repo.On("IncrementUsage", mock.Anything, coupon.ID.String()).Return(ErrUsageLimitReached)

	svc := NewService(repo)
	_, err := svc.Redeem(context.Background(), "SPRING10", uuid.New().String(), uuid.New().String(), 15000)

	assert.ErrorIs(t, err, ErrUsageLimitReached)
}

func TestRedeem_InvalidCouponDoesNotConsume(t *testing.T) {
	repo := new(mockRepository)
	coupon := validCoupon()
	coupon.Active = false
	repo.On("GetByCode", mock.Anything, "SPRING10").Return(coupon, nil)

	svc := NewService(repo)
	_, err := svc.Redeem(context.Background(), "SPRING10", uuid.New().String(), uuid.New().String(), 15000)

	assert.ErrorIs(t, err, ErrCouponInactive)
	repo.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything)
}

func TestCreate_RejectsInvertedWindow(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), uuid.New().String(), &CreateCouponRequest{
		Code:       "BAD",
		Type:       string(TypeFixed),
		Value:      100,
		ValidFrom:  time.Now(),
		ValidUntil: time.Now().Add(-time.Hour),
	})

	assert.ErrorIs(t, err, ErrInvalidWindow)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
