package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gongu-report-go/internal/model"
)

// newTestDB 创建一个内存 SQLite 数据库并迁移全部表结构。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.ReportDraft{},
		&model.UploadedFile{},
		&model.AIGenerationLog{},
		&model.ReportTemplate{},
	); err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}
	return db
}
