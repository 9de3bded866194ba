package storage

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tinigom/models"
)

// DB is the persistence gateway: typed row-level CRUD over the four record
// collections (transactions, settings, todos, quotes). It is constructed
// once and handed to the HTTP server; there is no package-level instance.
type DB struct {
	conn *gorm.DB
}

// Open connects to Postgres with the given DSN, runs migrations (unless
// DB_AUTO_MIGRATE is false) and seeds the settings singleton.
func Open(dsn string) (*DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db := &DB{conn: conn}

	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others.
		for _, m := range []interface{}{
			&models.Transaction{},
			&models.Settings{},
			&models.Todo{},
			&models.MotivationalQuote{},
		} {
			if err := conn.AutoMigrate(m); err != nil {
				log.Printf("migration warning (%T): %v", m, err)
			}
		}
	}
	if err := db.seedSettings(); err != nil {
		return nil, err
	}
	return db, nil
}

// seedSettings ensures the singleton settings row exists.
func (db *DB) seedSettings() error {
	var count int64
	if err := db.conn.Model(&models.Settings{}).Where("id = ?", models.SettingsID).Count(&count).Error; err != nil {
		return fmt.Errorf("checking settings row: %w", err)
	}
	if count == 0 {
		s := models.Settings{ID: models.SettingsID, SavingsGoal: models.DefaultSavingsGoal, LastInvoiceNumber: 19}
		if err := db.conn.Create(&s).Error; err != nil {
			return fmt.Errorf("seeding settings row: %w", err)
		}
		log.Println("Seeded settings row with default savings goal", models.DefaultSavingsGoal)
	}
	return nil
}

// Ping verifies the underlying connection is alive.
func (db *DB) Ping() error {
	sqlDB, err := db.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// GetSettings returns the singleton settings row.
func (db *DB) GetSettings() (*models.Settings, error) {
	var s models.Settings
	if err := db.conn.First(&s, models.SettingsID).Error; err != nil {
		return nil, fmt.Errorf("fetching settings: %w", err)
	}
	return &s, nil
}

// SettingsUpdate carries the mutable settings fields. TargetMonths and
// TargetStartDate are applied only when both are present; the goal is
// always applied. Last writer wins, no optimistic lock.
type SettingsUpdate struct {
	SavingsGoal     decimal.Decimal
	TargetMonths    *int
	TargetStartDate *time.Time
}

// UpdateSettings applies u to the singleton row and returns the new state.
func (db *DB) UpdateSettings(u SettingsUpdate) (*models.Settings, error) {
	s, err := db.GetSettings()
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"savings_goal": u.SavingsGoal,
		"updated_at":   time.Now(),
	}
	if u.TargetMonths != nil && u.TargetStartDate != nil {
		updates["target_months"] = *u.TargetMonths
		updates["target_start_date"] = *u.TargetStartDate
	}
	if err := db.conn.Model(s).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("updating settings: %w", err)
	}
	return db.GetSettings()
}

// NextInvoiceNumber increments the persisted invoice counter and returns
// the new value.
func (db *DB) NextInvoiceNumber() (int, error) {
	var n int
	err := db.conn.Transaction(func(tx *gorm.DB) error {
		var s models.Settings
		if err := tx.First(&s, models.SettingsID).Error; err != nil {
			return err
		}
		n = s.LastInvoiceNumber + 1
		return tx.Model(&s).Update("last_invoice_number", n).Error
	})
	if err != nil {
		return 0, fmt.Errorf("advancing invoice counter: %w", err)
	}
	return n, nil
}
