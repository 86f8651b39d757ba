// Package testutil 测试用的公共辅助函数
package testutil

import (
	"testing"

	"shortlink-service/pkg/database"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB 为每个测试创建一个独立的内存数据库，测试结束时关闭
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	// 每个测试使用不同的库名，避免 cache=shared 时互相污染
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("无法连接到内存数据库: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("%v", err)
	}
	// 共享缓存的内存库在多连接并发写时会报 table is locked，测试里串行化
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取连接池失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
