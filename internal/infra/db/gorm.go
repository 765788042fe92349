package db

import (
	"fmt"

	"storeadmin/internal/config"
	"storeadmin/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{}
	if cfg.GoEnv != "dev" {
		gcfg.Logger = logger.Default.LogMode(logger.Warn)
	}

	// DATABASE_URL があれば最優先で使う
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), gcfg)
	}

	return gorm.Open(postgres.Open(DSN(cfg)), gcfg)
}

// POSTGRES_* からDSNを組み立てる
func DSN(cfg config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
	)
}

// Migrate はテーブルを作成・更新する。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Store{},
		&model.Category{},
		&model.Color{},
		&model.Product{},
		&model.Customer{},
		&model.CustomerAddress{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	)
}
