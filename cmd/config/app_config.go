package config

import (
	"annam-mithra-backend/internal/api/handlers"
	"annam-mithra-backend/internal/api/routes"
	"annam-mithra-backend/internal/middleware"
	"annam-mithra-backend/internal/utils"
	"annam-mithra-backend/internal/utils/storage"
	"annam-mithra-backend/pkg/auth"
	"annam-mithra-backend/pkg/badge"
	"annam-mithra-backend/pkg/chat"
	"annam-mithra-backend/pkg/donation"
	"annam-mithra-backend/pkg/interest"
	"annam-mithra-backend/pkg/notification"
	"annam-mithra-backend/pkg/tag"
	"annam-mithra-backend/pkg/user"
	"context"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Kolkata",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	verifier, pushGateway := buildFirebase()

	// Repository
	userRepository := user.NewUserRepository(db)
	donationRepository := donation.NewDonationRepository(db)
	interestRepository := interest.NewInterestRepository(db)
	chatRepository := chat.NewChatRepository(db)
	tagRepository := tag.NewTagRepository(db)
	badgeRepository := badge.NewBadgeRepository(db)

	// Service
	notifier := notification.NewNotificationTrigger(pushGateway, userRepository)
	userService := user.NewUserService(userRepository)
	donationService := donation.NewDonationService(donationRepository, userRepository, s3, notifier)
	chatService := chat.NewChatService(chatRepository, chat.NewHub(), notifier)
	badgeService := badge.NewBadgeService(badgeRepository)
	interestService := interest.NewInterestService(interestRepository, donationRepository, chatService, badgeService, notifier)
	tagService := tag.NewTagService(tagRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, badgeService, validator)
	donationHandler := handlers.NewDonationHandler(donationService, validator)
	interestHandler := handlers.NewInterestHandler(interestService, validator)
	chatHandler := handlers.NewChatHandler(chatService, validator)
	tagHandler := handlers.NewTagHandler(tagService, validator)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		DonationHandler: donationHandler,
		InterestHandler: interestHandler,
		ChatHandler:     chatHandler,
		TagHandler:      tagHandler,
		Middleware:      middlewares,
		TokenVerifier:   verifier,
	}
	routesConfig.Setup()
	return app, nil
}

// buildFirebase wires token verification and push delivery against the
// configured Firebase project. Without credentials the app still boots, with
// the local HS256 verifier and a log-only push gateway.
func buildFirebase() (auth.TokenVerifier, notification.PushGateway) {
	credentials := utils.GetConfig("FIREBASE_CREDENTIALS")
	if credentials == "" {
		log.Warn("no firebase credentials configured, using local verifier and log-only pushes")
		return auth.NewLocalVerifier(utils.GetConfig("JWT_SECRET")), notification.NewLogGateway()
	}

	app, err := firebase.NewApp(context.Background(), &firebase.Config{
		ProjectID: utils.GetConfig("FIREBASE_PROJECT_ID"),
	}, option.WithCredentialsFile(credentials))
	if err != nil {
		log.Fatalf("error initializing firebase app: %v", err)
	}

	verifier, err := auth.NewFirebaseVerifier(app)
	if err != nil {
		log.Fatalf("error initializing firebase auth: %v", err)
	}
	gateway, err := notification.NewFCMGateway(app)
	if err != nil {
		log.Fatalf("error initializing firebase messaging: %v", err)
	}
	return verifier, gateway
}
