package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/meridianapps/contacts-api/internal/config"
	"github.com/meridianapps/contacts-api/internal/db"
	"github.com/meridianapps/contacts-api/internal/repository"
	"github.com/meridianapps/contacts-api/internal/service"
	"github.com/meridianapps/contacts-api/internal/storage"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Storage        storage.Storage
	AuthService    *service.AuthService
	UserService    *service.UserService
	AvatarService  *service.AvatarService
	ContactService *service.ContactService
	EmailService   *service.EmailService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	sessionRepository := repository.NewSessionRepository(database)
	contactRepository := repository.NewContactRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		sessionRepository,
		emailService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
	)
	userService := service.NewUserService(userRepository)
	avatarService := service.NewAvatarService(userRepository, fileStorage, cfg.AvatarSize, cfg.AvatarQuality)
	contactService := service.NewContactService(contactRepository)

	return &App{
		Cfg:            cfg,
		DB:             database,
		Storage:        fileStorage,
		AuthService:    authService,
		UserService:    userService,
		AvatarService:  avatarService,
		ContactService: contactService,
		EmailService:   emailService,
	}, nil
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
