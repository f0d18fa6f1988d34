package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adnankhalid/painthub-backend/pkg/db/models"
	"github.com/adnankhalid/painthub-backend/pkg/enums"
	"github.com/adnankhalid/painthub-backend/pkg/pagination"
	"github.com/adnankhalid/painthub-backend/pkg/types"
)

func newOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE orders (
			id TEXT PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			shopper_id TEXT NOT NULL,
			cart_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			payment_method TEXT NOT NULL DEFAULT 'cod',
			shipping TEXT,
			subtotal_cents INTEGER NOT NULL,
			discount_cents INTEGER NOT NULL DEFAULT 0,
			delivery_fee_cents INTEGER NOT NULL DEFAULT 0,
			total_cents INTEGER NOT NULL,
			promo_code TEXT,
			tracking_number TEXT,
			estimated_delivery DATETIME,
			confirmed_at DATETIME,
			delivered_at DATETIME,
			canceled_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE order_line_items (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			variant_id TEXT NOT NULL,
			color_id TEXT NOT NULL,
			product_name TEXT NOT NULL,
			variant_size TEXT NOT NULL,
			color_name TEXT NOT NULL,
			color_hex TEXT NOT NULL,
			unit_price_cents INTEGER NOT NULL,
			quantity INTEGER NOT NULL,
			line_total_cents INTEGER NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func buildOrder(shopperID uuid.UUID, number string, createdAt time.Time) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		OrderNumber:   number,
		ShopperID:     shopperID,
		CartID:        uuid.New(),
		Status:        enums.OrderStatusPending,
		PaymentMethod: enums.PaymentMethodCOD,
		Shipping: types.ShippingInfo{
			FirstName: "Amina",
			LastName:  "Tariq",
			Phone:     "+92-300-1234567",
			Address:   "14 Canal Road",
			City:      "Lahore",
			Country:   "PK",
		},
		SubtotalCents:    5000,
		DeliveryFeeCents: 0,
		TotalCents:       5000,
		CreatedAt:        createdAt,
		Items: []models.OrderLineItem{
			{
				ProductID:      uuid.New(),
				VariantID:      uuid.New(),
				ColorID:        uuid.New(),
				ProductName:    "Matte Emulsion",
				VariantSize:    "4L",
				ColorName:      "Slate Grey",
				ColorHex:       "#708090",
				UnitPriceCents: 2500,
				Quantity:       2,
				LineTotalCents: 5000,
			},
		},
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	db := newOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	shopperID := uuid.New()
	created, err := repo.Create(ctx, buildOrder(shopperID, "PH-20260314-AAAA0001", time.Now().UTC()))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "PH-20260314-AAAA0001", got.OrderNumber)
	assert.Equal(t, enums.OrderStatusPending, got.Status)
	assert.Equal(t, "Lahore", got.Shipping.City)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Matte Emulsion", got.Items[0].ProductName)
	assert.Equal(t, 5000, got.Items[0].LineTotalCents)
	assert.Equal(t, created.ID, got.Items[0].OrderID)
}

func TestGetMissingOrder(t *testing.T) {
	db := newOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListFiltersAndPaginates(t *testing.T) {
	db := newOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	shopperA := uuid.New()
	shopperB := uuid.New()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for i, spec := range []struct {
		shopper uuid.UUID
		number  string
	}{
		{shopperA, "PH-20260310-AAAA0001"},
		{shopperA, "PH-20260310-AAAA0002"},
		{shopperA, "PH-20260310-AAAA0003"},
		{shopperB, "PH-20260310-BBBB0001"},
	} {
		_, err := repo.Create(ctx, buildOrder(spec.shopper, spec.number, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	page, err := repo.List(ctx, pagination.Params{Limit: 2}, Filters{ShopperID: &shopperA})
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
	assert.Equal(t, "PH-20260310-AAAA0003", page.Orders[0].OrderNumber)
	assert.Equal(t, "PH-20260310-AAAA0002", page.Orders[1].OrderNumber)
	require.NotEmpty(t, page.NextCursor)

	rest, err := repo.List(ctx, pagination.Params{Limit: 2, Cursor: page.NextCursor}, Filters{ShopperID: &shopperA})
	require.NoError(t, err)
	require.Len(t, rest.Orders, 1)
	assert.Equal(t, "PH-20260310-AAAA0001", rest.Orders[0].OrderNumber)
	assert.Empty(t, rest.NextCursor)

	status := enums.OrderStatusDelivered
	none, err := repo.List(ctx, pagination.Params{}, Filters{Status: &status})
	require.NoError(t, err)
	assert.Empty(t, none.Orders)
}

func TestUpdateAppliesColumns(t *testing.T) {
	db := newOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, buildOrder(uuid.New(), "PH-20260314-CCCC0001", time.Now().UTC()))
	require.NoError(t, err)

	confirmedAt := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	err = repo.Update(ctx, created.ID, map[string]any{
		"status":       enums.OrderStatusConfirmed,
		"confirmed_at": confirmedAt,
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, got.Status)
	require.NotNil(t, got.ConfirmedAt)
	assert.True(t, got.ConfirmedAt.Equal(confirmedAt))
}

func TestFindPendingBeforeCutoff(t *testing.T) {
	db := newOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	old := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	stale, err := repo.Create(ctx, buildOrder(uuid.New(), "PH-20260301-DDDD0001", old))
	require.NoError(t, err)
	_, err = repo.Create(ctx, buildOrder(uuid.New(), "PH-20260314-DDDD0002", recent))
	require.NoError(t, err)

	confirmed, err := repo.Create(ctx, buildOrder(uuid.New(), "PH-20260301-DDDD0003", old))
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, confirmed.ID, map[string]any{"status": enums.OrderStatusConfirmed}))

	found, err := repo.FindPendingBefore(ctx, old.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, stale.ID, found[0].ID)
}
