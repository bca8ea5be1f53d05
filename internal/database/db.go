package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"cashier-backend/internal/config"
	"cashier-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open: config'deki sürücüye göre bağlanır ve migration çalıştırır
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		dialector = postgres.Open(cfg.DatabaseDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		// ErrDuplicatedKey / ErrForeignKeyViolated dönebilmesi için
		TranslateError: true,
		Logger:         newGormLogger(cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	if cfg.DatabaseDriver == "sqlite" {
		// SQLite tek yazıcıya izin verir
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Shift{},
		&models.ShiftOrderSequence{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.InventoryItem{},
		&models.StockMovement{},
		&models.DayStatus{},
		&models.PurchaseInvoice{},
		&models.PurchaseInvoiceItem{},
		&models.ReturnPurchaseInvoice{},
		&models.ReturnPurchaseInvoiceItem{},
		&models.Waste{},
		&models.WasteItem{},
		&models.Stocktaking{},
		&models.StocktakingItem{},
		&models.OutboxEvent{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate hatası: %w", err)
	}

	// Gün durumu tek satır, yoksa kapalı olarak oluştur
	day := models.DayStatus{ID: models.DayStatusID}
	if err := db.Where(models.DayStatus{ID: models.DayStatusID}).FirstOrCreate(&day).Error; err != nil {
		return fmt.Errorf("gün durumu oluşturulamadı: %w", err)
	}
	return nil
}

func newGormLogger(level string) logger.Interface {
	lvl := logger.Warn
	switch level {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}
	return logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}
