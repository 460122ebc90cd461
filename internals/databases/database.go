package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"edumark_backend/internals/configs"
)

// DB stays nil when DB_DRIVER=none; callers fall back to in-memory stores.
var DB *gorm.DB

func ConnectDB() {
	driver := strings.ToLower(strings.TrimSpace(getenv("DB_DRIVER", "none")))

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		log.Println("[INFO] Connecting to PostgreSQL...")
		sslmode := getenv("DB_SSLMODE", "require")
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=edumark&options=-c statement_timeout=3000",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_NAME"),
			sslmode,
		)
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // PgBouncer transaction pooling
		})
	case "sqlite":
		path := getenv("SQLITE_PATH", "edumark.db")
		log.Printf("[INFO] Opening SQLite database %s...", path)
		dialector = sqlite.Open(path)
	default:
		log.Println("[INFO] DB_DRIVER=none, running without a database")
		return
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: configs.NewGormLogger()})
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect DB: %v", err)
	}
	DB = db
	log.Println("[INFO] DB connected.")
}

// AutoMigrate is a no-op without a database.
func AutoMigrate(models ...interface{}) {
	if DB == nil {
		return
	}
	if err := DB.AutoMigrate(models...); err != nil {
		log.Fatalf("[FATAL] Auto migration failed: %v", err)
	}
	log.Printf("[INFO] Migrated %d models", len(models))
}

func TunePool() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	if DB == nil {
		return
	}
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func Ping() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
