package postgres

import (
	"io"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jupani/storefront/internal/domain/order"
	"github.com/jupani/storefront/internal/domain/product"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestMigration(t *testing.T) (*Migration, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	l := logrus.New()
	l.SetOutput(io.Discard)

	return NewMigration(db, l), db
}

func TestMigration_RunAutoMigrationsAndIndexes(t *testing.T) {
	m, db := newTestMigration(t)

	require.NoError(t, m.RunAutoMigrations())
	require.NoError(t, m.CreateIndexes())
	require.NoError(t, m.CreateIndexes())

	for _, model := range []interface{}{&product.Product{}, &order.Order{}, &order.OrderItem{}, &order.OrderStatusHistory{}} {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
	assert.True(t, db.Migrator().HasIndex(&product.Product{}, "idx_products_active_popularity"))
}

func TestMigration_SeedInitialDataUpsertsBySlug(t *testing.T) {
	m, db := newTestMigration(t)
	require.NoError(t, m.RunAutoMigrations())

	require.NoError(t, m.SeedInitialData())

	var count int64
	require.NoError(t, db.Model(&product.Product{}).Count(&count).Error)
	assert.Equal(t, int64(10), count)

	var brigadeiro product.Product
	require.NoError(t, db.Where("slug = ?", "brigadeiro-gourmet-4-leites").First(&brigadeiro).Error)
	assert.Equal(t, int64(350), brigadeiro.Price)
	assert.Equal(t, []string{"/images/products/brigadeiro-gourmet.svg"}, brigadeiro.Images)
	require.NotNil(t, brigadeiro.Calories)
	assert.Equal(t, 120, *brigadeiro.Calories)
	assert.True(t, brigadeiro.IsFeatured)

	require.NoError(t, db.Model(&brigadeiro).Updates(map[string]interface{}{"price": 1, "active": false}).Error)

	require.NoError(t, m.SeedInitialData())

	require.NoError(t, db.Model(&product.Product{}).Count(&count).Error)
	assert.Equal(t, int64(10), count)

	var reseeded product.Product
	require.NoError(t, db.Where("slug = ?", "brigadeiro-gourmet-4-leites").First(&reseeded).Error)
	assert.Equal(t, brigadeiro.ID, reseeded.ID)
	assert.Equal(t, int64(350), reseeded.Price)
	assert.True(t, reseeded.Active)
}

func TestDB_HealthAndClose(t *testing.T) {
	_, gdb := newTestMigration(t)
	d := &DB{DB: gdb}

	assert.Same(t, gdb, d.GetDB())
	require.NoError(t, d.Health())
	require.NoError(t, d.Close())
	assert.Error(t, d.Health())
}
