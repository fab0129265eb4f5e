package main

import (
	"context"
	"flag"
	"fmt"

	"clinic-booking/config"
	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"
	"clinic-booking/internal/domain/schedule"
	"clinic-booking/internal/infrastructure/cache"
	"clinic-booking/internal/infrastructure/database"
	"clinic-booking/internal/repository"
	"clinic-booking/pkg/jwt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var departments = []string{
	"Cardiology",
	"Dermatology",
	"General Practice",
	"Neurology",
	"Orthopedics",
	"Pediatrics",
}

var workWeek = []schedule.Weekday{
	schedule.Monday,
	schedule.Tuesday,
	schedule.Wednesday,
	schedule.Thursday,
	schedule.Friday,
}

// seed creates doctors with a weekday schedule plus one admin and one patient,
// and prints a ready-to-use bearer token for each role.
func main() {
	doctors := flag.Int("doctors", 10, "number of doctors to create")
	password := flag.String("password", "password123", "password for every seeded account")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, cfg.DB.Name); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("Failed to hash password: %v", err)
	}

	s := &seeder{
		userRepo:         repository.NewUserRepository(),
		availabilityRepo: repository.NewAvailabilityRepository(),
		passwordHash:     string(hash),
	}

	var admin, patient, firstDoctor *entity.User
	err = db.Transaction(func(tx *gorm.DB) error {
		if admin, err = s.createUser(tx, entity.RoleAdmin, ""); err != nil {
			return err
		}
		if patient, err = s.createUser(tx, entity.RolePatient, ""); err != nil {
			return err
		}
		for i := 0; i < *doctors; i++ {
			doctor, err := s.createUser(tx, entity.RoleDoctor, departments[i%len(departments)])
			if err != nil {
				return err
			}
			if err := s.createWeeklyRules(tx, doctor); err != nil {
				return err
			}
			if firstDoctor == nil {
				firstDoctor = doctor
			}
		}
		return nil
	})
	if err != nil {
		logrus.Fatalf("Failed to seed: %v", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT)
	tokenStore := cache.NewTokenStore(redisClient)
	for _, u := range []*entity.User{admin, firstDoctor, patient} {
		if u == nil {
			continue
		}
		token, tokenID, err := jwtService.GenerateAccessToken(u.ID, u.Email, string(u.Role))
		if err != nil {
			logrus.Fatalf("Failed to sign token for %s: %v", u.Email, err)
		}
		if err := tokenStore.Register(context.Background(), u.ID, tokenID, jwtService.GetAccessExpiry()); err != nil {
			logrus.Fatalf("Failed to register token for %s: %v", u.Email, err)
		}
		fmt.Printf("%-8s %-40s %s (%s)\n%s\n\n", u.Role, u.Email, u.FullName(), u.Department, token)
	}

	logrus.Infof("Seeded %d doctors, 1 admin and 1 patient", *doctors)
}

type seeder struct {
	userRepo         domainRepo.UserRepository
	availabilityRepo domainRepo.AvailabilityRepository
	passwordHash     string
}

func (s *seeder) createUser(tx *gorm.DB, role entity.Role, department string) (*entity.User, error) {
	user := &entity.User{
		FirstName:  gofakeit.FirstName(),
		LastName:   gofakeit.LastName(),
		Email:      gofakeit.Email(),
		Phone:      gofakeit.Phone(),
		Password:   s.passwordHash,
		Role:       role,
		Department: department,
		IsActive:   true,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, fmt.Errorf("create %s: %w", role, err)
	}
	return user, nil
}

func (s *seeder) createWeeklyRules(tx *gorm.DB, doctor *entity.User) error {
	start := fmt.Sprintf("%02d:00", gofakeit.Number(8, 10))
	end := fmt.Sprintf("%02d:00", gofakeit.Number(12, 16))
	slot := []int{15, 20, 30}[gofakeit.Number(0, 2)]

	for _, day := range workWeek {
		name := string(day)
		rule := &entity.Availability{
			DoctorID:     doctor.ID,
			DayOfWeek:    &name,
			StartTime:    start,
			EndTime:      end,
			SlotDuration: slot,
			IsActive:     true,
		}
		if err := s.availabilityRepo.Create(tx, rule); err != nil {
			return fmt.Errorf("create %s rule for %s: %w", day, doctor.Email, err)
		}
	}
	return nil
}
