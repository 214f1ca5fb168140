// Package repotest opens throwaway sqlite databases and seeds marketplace rows
// for tests.
package repotest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/pkg/db"
)

func NewRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "marketplace.db")
	gdb, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func User(t *testing.T, gdb *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Buyer " + email, Email: email, PasswordHash: "x"}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

// Vendor creates a user plus the vendor row that belongs to it.
func Vendor(t *testing.T, gdb *gorm.DB, store string) *models.Vendor {
	t.Helper()
	owner := User(t, gdb, fmt.Sprintf("%s@vendor.test", store))
	v := &models.Vendor{
		UserID:         owner.ID,
		StoreName:      store,
		CommissionRate: Dec("5.00"),
		Balance:        decimal.Zero,
	}
	require.NoError(t, gdb.Create(v).Error)
	return v
}

func Product(t *testing.T, gdb *gorm.DB, vendorID uint, title, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{VendorID: vendorID, Title: title, Price: Dec(price), StockQuantity: stock}
	require.NoError(t, gdb.Omit("Vendor").Create(p).Error)
	return p
}

func CartLine(t *testing.T, gdb *gorm.DB, userID, productID uint, qty int) *models.CartLine {
	t.Helper()
	l := &models.CartLine{UserID: userID, ProductID: productID, Quantity: qty}
	require.NoError(t, gdb.Omit("Product").Create(l).Error)
	return l
}

func Stock(t *testing.T, gdb *gorm.DB, productID uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, gdb.First(&p, productID).Error)
	return p.StockQuantity
}

func Count(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}
