package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"user-account-api/internal/core/config"
	"user-account-api/internal/core/database"
	"user-account-api/internal/core/logger"
	"user-account-api/internal/domain"
	"user-account-api/pkg/utils"
)

type seedUser struct {
	FirstName  string
	LastName   string
	MiddleName string
	Email      string
	Password   string
	Role       domain.Role
	IsActive   bool
}

var usersData = []seedUser{
	{"Aleksandr", "Ivanov", "Petrovich", "alex.ivanov@example.com", "4821", domain.RoleAdmin, true},
	{"Maria", "Smirnova", "Alekseevna", "maria.smirnova@example.com", "9053", domain.RoleAdmin, true},
	{"Dmitry", "Kuznetsov", "Igorevich", "dmitry.kuznetsov@example.com", "1177", domain.RoleAdmin, true},
	{"Olga", "Popova", "Nikolaevna", "olga.popova@example.com", "3008", domain.RoleUser, false},
	{"Igor", "Sokolov", "Vladimirovich", "igor.sokolov@example.com", "7742", domain.RoleUser, false},
	{"Elena", "Lebedeva", "Sergeevna", "elena.lebedeva@example.com", "6601", domain.RoleUser, false},
	{"Viktor", "Novikov", "Andreevich", "viktor.novikov@example.com", "2490", domain.RoleUser, true},
	{"Natalia", "Morozova", "Pavlovna", "natalia.morozova@example.com", "1338", domain.RoleUser, true},
	{"Sergey", "Soloviev", "Mikhailovich", "sergey.soloviev@example.com", "5574", domain.RoleUser, true},
	{"Anna", "Vasileva", "Yurievna", "anna.vasileva@example.com", "4026", domain.RoleUser, true},
	{"Pavel", "Grigorev", "Romanovich", "pavel.grigorev@example.com", "8899", domain.RoleUser, true},
	{"Kseniya", "Mikhailova", "Viktorovna", "kseniya.mikhailova@example.com", "2165", domain.RoleUser, true},
	{"Roman", "Orlov", "Denisovich", "roman.orlov@example.com", "0312", domain.RoleUser, true},
	{"Lyudmila", "Kozlova", "Ivanovna", "lyudmila.kozlova@example.com", "4757", domain.RoleUser, true},
	{"Maksim", "Nikitin", "Artemovich", "maksim.nikitin@example.com", "9084", domain.RoleUser, true},
}

// 演示数据灌库：表里已有数据就跳过
func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		log.Fatal("count users", zap.Error(err))
	}
	if count > 0 {
		log.Info("users already exist, skipping seed", zap.Int64("count", count))
		return
	}

	users := make([]domain.User, 0, len(usersData))
	for _, s := range usersData {
		hash, err := utils.HashPassword(s.Password)
		if err != nil {
			log.Fatal("hash password", zap.Error(err))
		}
		users = append(users, domain.User{
			FirstName:    s.FirstName,
			LastName:     s.LastName,
			MiddleName:   s.MiddleName,
			Email:        s.Email,
			PasswordHash: hash,
			Role:         s.Role,
			IsActive:     s.IsActive,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		log.Fatal("seed insert failed", zap.Error(err))
	}
	log.Info("seed completed", zap.Int("users", len(users)))
}
