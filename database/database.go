package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"issuetrack-restful/config"
	"issuetrack-restful/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to the configured store. The driver is selected by
// configuration so the same binary runs against mysql or postgres in
// production and sqlite in development.
func Open(driver, dsn string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	return gorm.Open(dialector, &gorm.Config{Logger: newLogger})
}

// InitDB opens the configured database, runs migrations and seeds the
// initial admin account. It panics on failure: the application cannot
// serve anything without its store.
func InitDB() *gorm.DB {
	db, err := Open(config.AppConfig.DatabaseDriver, config.AppConfig.DatabaseURL)
	if err != nil {
		panic(fmt.Errorf("failed to connect database: %w", err))
	}

	if err := Migrate(db); err != nil {
		panic(fmt.Errorf("failed to migrate database: %w", err))
	}

	DB = db
	fmt.Println("Database connection successful and migrations complete.")

	SeedInitialData(DB)
	return db
}

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Issue{},
		&models.Comment{},
		&models.Notification{},
	)
}

// SeedInitialData creates the bootstrap admin account if none exists, so a
// fresh deployment has a way to reach the admin dashboard.
func SeedInitialData(db *gorm.DB) {
	var admin models.User
	if err := db.Where("username = ?", "admin").First(&admin).Error; err == gorm.ErrRecordNotFound {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("adminpassword"), bcrypt.DefaultCost)
		admin = models.User{
			Username: "admin",
			Email:    "admin@example.com",
			Name:     "Administrator",
			Password: string(hashedPassword),
			Role:     models.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Printf("Failed to create initial admin user: %v\n", err)
		} else {
			log.Println("Created initial admin user.")
		}
	}
}
