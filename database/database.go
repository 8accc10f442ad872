package database

import (
	"leavedesk/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(dsn string, log *zap.Logger) error {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	if err := Seed(DB, log); err != nil {
		return err
	}

	return nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Shift{},
		&models.Designation{},
		&models.LeaveType{},
		&models.LeaveRequest{},
		&models.LieuOff{},
		&models.LoginLog{},
	)
}

// Seed creates the bootstrap super admin and the standard leave types if
// they are missing. Everything else is created through the API.
func Seed(db *gorm.DB, log *zap.Logger) error {
	if err := seedSuperAdmin(db, log); err != nil {
		return err
	}
	return seedLeaveTypes(db, log)
}

func seedSuperAdmin(db *gorm.DB, log *zap.Logger) error {
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:           "admin",
		FullName:           "Administrator",
		PasswordHash:       string(hashedPassword),
		Role:               models.RoleSuperAdmin,
		MustChangePassword: true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Info("default super admin created", zap.String("username", "admin"))
	return nil
}

func seedLeaveTypes(db *gorm.DB, log *zap.Logger) error {
	defaults := []models.LeaveType{
		{Name: "Casual Leave", Key: "casual_leave", DefaultDays: 8},
		{Name: "Sick Leave", Key: "sick_leave", DefaultDays: 10},
		{Name: "Annual Leave", Key: "annual_leave", DefaultDays: 14},
		{Name: "Lieu Leave", Key: models.LieuLeaveKey, DefaultDays: 0},
	}

	for _, lt := range defaults {
		var count int64
		db.Model(&models.LeaveType{}).Where("key = ?", lt.Key).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&lt).Error; err != nil {
			return err
		}
		log.Info("leave type seeded", zap.String("key", lt.Key), zap.Int("default_days", lt.DefaultDays))
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
