package database

import (
	"fmt"
	"log"
	"os"

	"hexaboard_backend/internal/config"
	"hexaboard_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// Schema changes in release mode only run when explicitly requested.
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.Department{},
			&model.CourseAssignment{},
			&model.AssignmentTask{},
			&model.LoginLog{},
			&model.ChatMessage{},
			&model.OutboxEmail{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")
	}

	// Bootstrap admin so a fresh deployment is usable.
	var adminCount int64
	db.Model(&model.User{}).Where("role = ?", model.Admin).Count(&adminCount)
	if adminCount == 0 {
		password := os.Getenv("HEXABOARD_ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		admin := &model.User{
			Name:     "Administrator",
			Email:    "admin@hexaboard.local",
			Password: string(hashed),
			Role:     model.Admin,
			Status:   model.StatusActive,
		}
		if err := db.Create(admin).Error; err != nil {
			return nil, err
		}
		log.Println("Seeded default admin account")
	}

	return db, nil
}
