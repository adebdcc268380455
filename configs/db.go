package configs

import (
	"backend/entity"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

func ConnectionDB(cfg *Config) {
	var (
		database *gorm.DB
		err      error
	)
	gormCfg := &gorm.Config{TranslateError: true}
	switch cfg.DBDriver {
	case "postgres":
		database, err = gorm.Open(postgres.Open(cfg.DBSource), gormCfg)
	default:
		database, err = gorm.Open(sqlite.Open(cfg.DBSource), gormCfg)
	}
	if err != nil {
		panic("failed to connect database: " + err.Error())
	}
	db = database
}

func SetupDatabase() {
	db.AutoMigrate(
		&entity.Tenant{}, &entity.User{},
		&entity.Category{}, &entity.MenuItem{},
		&entity.Table{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.Payment{},
		&entity.ChatSession{}, &entity.CartLine{}, &entity.ChatMessage{},
	)
}
