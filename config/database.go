package config

import (
	"MindBotGo/models"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB 初始化數據庫連接
func InitDB(config Config) error {
	dsn := config.GetDBConnString()

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	// 設置連接池
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 設置連接池參數
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自動遷移表結構
	if err := migrateDB(); err != nil {
		return fmt.Errorf("數據庫遷移失敗: %v", err)
	}

	return nil
}

// migrateDB 進行數據庫表結構遷移
func migrateDB() error {
	// 所有持久化狀態都以整份文檔的形式存放在 documents 表
	if err := DB.AutoMigrate(&models.Document{}); err != nil {
		return fmt.Errorf("數據庫遷移失敗: %v", err)
	}
	return nil
}
