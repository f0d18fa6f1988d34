package reservation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adnankhalid/painthub-backend/pkg/db/models"
	pkgerrors "github.com/adnankhalid/painthub-backend/pkg/errors"
)

func TestReserveDecrementsGuarded(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	colorA := seedColor(t, db, 5)
	colorB := seedColor(t, db, 1)

	requests := []Request{
		{LineID: uuid.New(), ColorID: colorA, Qty: 3},
		{LineID: uuid.New(), ColorID: colorA, Qty: 4},
		{LineID: uuid.New(), ColorID: colorB, Qty: 1},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		results, terr := Reserve(ctx, tx, requests)
		if terr != nil {
			return terr
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		if !results[0].Reserved || results[0].Reason != "" {
			t.Fatalf("expected first reservation to succeed: %+v", results[0])
		}
		if results[1].Reserved || results[1].Reason == "" {
			t.Fatalf("expected second reservation to fail with reason: %+v", results[1])
		}
		if results[1].Available != 2 {
			t.Fatalf("expected observed stock 2, got %d", results[1].Available)
		}
		if !results[2].Reserved {
			t.Fatalf("expected third reservation to succeed: %+v", results[2])
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reserve transaction: %v", err)
	}

	if got := loadStock(t, db, colorA); got != 2 {
		t.Fatalf("color a stock = %d, want 2", got)
	}
	if got := loadStock(t, db, colorB); got != 0 {
		t.Fatalf("color b stock = %d, want 0", got)
	}
}

func TestReserveUnknownColor(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	results, err := Reserve(context.Background(), db, []Request{
		{LineID: uuid.New(), ColorID: uuid.New(), Qty: 1},
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if results[0].Reserved || results[0].Reason == "" {
		t.Fatalf("expected missing color to fail reservation: %+v", results[0])
	}
}

func TestReserveInvalidQty(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	color := seedColor(t, db, 5)

	_, err := Reserve(context.Background(), db, []Request{{ColorID: color, Qty: 0}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReleaseRestoresStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	color := seedColor(t, db, 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, terr := Reserve(ctx, tx, []Request{{LineID: uuid.New(), ColorID: color, Qty: 3}}); terr != nil {
			return terr
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if got := loadStock(t, db, color); got != 7 {
		t.Fatalf("stock after reserve = %d, want 7", got)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return Release(ctx, tx, []Request{{LineID: uuid.New(), ColorID: color, Qty: 3}})
	})
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := loadStock(t, db, color); got != 10 {
		t.Fatalf("stock after release = %d, want 10", got)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:reservation_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	schema := `
CREATE TABLE colors (
  id TEXT PRIMARY KEY,
  variant_id TEXT NOT NULL,
  name TEXT NOT NULL,
  hex TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := db.Exec(schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func seedColor(t *testing.T, db *gorm.DB, stock int) uuid.UUID {
	t.Helper()
	color := models.Color{
		ID:        uuid.New(),
		VariantID: uuid.New(),
		Name:      "Slate",
		Hex:       "#3b4048",
		Stock:     stock,
	}
	if err := db.Create(&color).Error; err != nil {
		t.Fatalf("seed color: %v", err)
	}
	return color.ID
}

func loadStock(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var color models.Color
	if err := db.First(&color, "id = ?", id).Error; err != nil {
		t.Fatalf("load color: %v", err)
	}
	return color.Stock
}
