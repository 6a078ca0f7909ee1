package oracle_test

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/chopperdaddy/punks-indexer/internal/oracle"
	"github.com/chopperdaddy/punks-indexer/internal/store/schema"
)

func TestFixedOracle(t *testing.T) {
	orc := oracle.NewFixed(decimal.NewFromInt(1500))

	price, err := orc.USDPrice(context.Background(), time.Now(), 42)
	require.NoError(t, err)
	assert.Equal(t, "1500", price.String())
}

func newPriceDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&schema.PricePoint{}))
	return db
}

func TestGormOracleNearestPriorBlock(t *testing.T) {
	db := newPriceDB(t)

	points := []schema.PricePoint{
		{BlockNumber: 100, Timestamp: time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC), USDPerETH: decimal.NewFromInt(1000)},
		{BlockNumber: 200, Timestamp: time.Date(2022, 7, 2, 0, 0, 0, 0, time.UTC), USDPerETH: decimal.NewFromInt(1100)},
		{BlockNumber: 300, Timestamp: time.Date(2022, 7, 3, 0, 0, 0, 0, time.UTC), USDPerETH: decimal.NewFromInt(1200)},
	}
	require.NoError(t, db.Create(&points).Error)

	orc := oracle.NewGorm(db)
	ctx := context.Background()

	// Exact hit
	price, err := orc.USDPrice(ctx, time.Time{}, 200)
	require.NoError(t, err)
	assert.Equal(t, "1100", price.String())

	// Between points: the nearest earlier one applies
	price, err = orc.USDPrice(ctx, time.Time{}, 250)
	require.NoError(t, err)
	assert.Equal(t, "1100", price.String())

	// Past the last point
	price, err = orc.USDPrice(ctx, time.Time{}, 999)
	require.NoError(t, err)
	assert.Equal(t, "1200", price.String())
}

func TestGormOracleBeforeFirstPointIsZero(t *testing.T) {
	db := newPriceDB(t)

	require.NoError(t, db.Create(&schema.PricePoint{
		BlockNumber: 100,
		Timestamp:   time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC),
		USDPerETH:   decimal.NewFromInt(1000),
	}).Error)

	orc := oracle.NewGorm(db)

	price, err := orc.USDPrice(context.Background(), time.Time{}, 50)
	require.NoError(t, err)
	assert.True(t, price.IsZero())
}

func TestGormOracleEmptyTableIsZero(t *testing.T) {
	db := newPriceDB(t)
	orc := oracle.NewGorm(db)

	price, err := orc.USDPrice(context.Background(), time.Time{}, 42)
	require.NoError(t, err)
	assert.True(t, price.IsZero())
}
