package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type counter struct {
	ID    uint `gorm:"primarykey"`
	Value int
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&counter{}))
	t.Cleanup(func() {
		sqlDB, _ := gdb.DB()
		sqlDB.Close()
	})
	return gdb
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	gdb := openTestDB(t)
	tm := NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, GetTxFromContext(ctx, gdb).Create(&counter{Value: 1}).Error)
		return errors.New("append failed")
	})
	require.Error(t, err)

	var n int64
	require.NoError(t, gdb.Model(&counter{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestRunInTransaction_NestedJoinsOuter(t *testing.T) {
	gdb := openTestDB(t)
	tm := NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		outer := GetTxFromContext(ctx, gdb)
		return tm.RunInTransaction(ctx, func(inner context.Context) error {
			assert.Same(t, outer, GetTxFromContext(inner, gdb))
			return GetTxFromContext(inner, gdb).Create(&counter{Value: 2}).Error
		})
	})
	require.NoError(t, err)

	var n int64
	require.NoError(t, gdb.Model(&counter{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
