package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"userdesk/internal/config"
	"userdesk/internal/handlers"
	"userdesk/internal/middleware"
	"userdesk/internal/pdf"
	"userdesk/internal/repositories"
	"userdesk/internal/routes"
	"userdesk/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "userdesk/docs"
)

type stores struct {
	users        repositories.UserRepository
	descriptions repositories.DescriptionRepository
	otp          repositories.OTPRepository
	close        func()
}

func openStores(cfg *config.Config) (*stores, error) {
	if cfg.Storage.Driver == "memory" {
		log.Printf("[app] storage: memory (data is lost on restart)")
		return &stores{
			users:        repositories.NewMemoryUserRepository(),
			descriptions: repositories.NewMemoryDescriptionRepository(),
			otp:          repositories.NewMemoryOTPRepository(),
			close:        func() {},
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := repositories.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &stores{
		users:        repositories.NewUserRepository(db),
		descriptions: repositories.NewDescriptionRepository(db),
		otp:          repositories.NewOTPRepository(db),
		close: func() {
			if err := db.Close(); err != nil {
				log.Printf("[app] close db: %v", err)
			}
		},
	}, nil
}

func newNotifier(cfg config.EmailConfig) services.Notifier {
	if cfg.DryRun {
		log.Printf("[app] email: dry-run")
		return services.NewDryRunNotifier()
	}
	return services.NewEmailService(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.FromEmail,
	)
}

func newAlerter(cfg config.TelegramConfig) services.AdminAlerter {
	if cfg.BotToken == "" {
		return services.NewNoopAlerter()
	}
	alerter, err := services.NewTelegramAlerter(cfg.BotToken, cfg.AdminChatID)
	if err != nil {
		// интеграция необязательна
		log.Printf("[app] telegram disabled: %v", err)
		return services.NewNoopAlerter()
	}
	return alerter
}

// NewRouter builds the full HTTP surface on top of already opened stores.
func NewRouter(cfg *config.Config, users repositories.UserRepository, descriptions repositories.DescriptionRepository, otpRepo repositories.OTPRepository, notifier services.Notifier, alerter services.AdminAlerter) *gin.Engine {
	hasher := services.NewPasswordHasher(cfg.Auth.BcryptCost)
	otpService := services.NewOTPService(otpRepo, services.OTPOptions{
		Length:      cfg.OTP.Length,
		Alphabet:    cfg.OTP.Alphabet,
		TTL:         cfg.OTP.TTL,
		MaxAttempts: cfg.OTP.MaxAttempts,
	})
	authService := services.NewAuthService(users, otpService, hasher, notifier, services.AuthOptions{
		HideUnknownEmail: cfg.OTP.HideUnknown(),
		WelcomeEmail:     cfg.Email.WelcomeEnabled,
	})
	descriptionService := services.NewDescriptionService(descriptions, alerter)
	adminService := services.NewAdminService(users, pdf.NewReportGenerator(cfg.Report.FontPath))

	secret := []byte(cfg.Auth.JWTSecret)
	userHandler := handlers.NewUserHandler(authService, descriptionService, secret, cfg.Auth.AccessTokenTTL)
	adminHandler := handlers.NewAdminHandler(adminService, descriptionService)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return routes.SetupRoutes(router, userHandler, adminHandler, secret, users.GetByID)
}

func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[app] config: ", err)
	}

	st, err := openStores(cfg)
	if err != nil {
		log.Fatal("[app] storage: ", err)
	}
	defer st.close()

	router := NewRouter(cfg, st.users, st.descriptions, st.otp, newNotifier(cfg.Email), newAlerter(cfg.Telegram))

	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[app] listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("[app] server: ", err)
	}
}
