package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/handler"
	apimiddleware "github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/middleware"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/router"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/repository"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/infrastructure/firebase"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/infrastructure/ratelimit"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/infrastructure/storage"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/infrastructure/websocket"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/usecase"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []option.ClientOption
	switch {
	case cfg.FirebaseCredentialsJSON != "":
		log.Printf("Using Firebase service account from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialsJSON)))
	case cfg.FirebaseCredentialsPath != "":
		if _, err := os.Stat(cfg.FirebaseCredentialsPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", cfg.FirebaseCredentialsPath)
		}
		log.Printf("Using Firebase service account from file: %s", cfg.FirebaseCredentialsPath)
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsPath))
	default:
		log.Printf("Using application default credentials")
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	// Listing media is optional: without a bucket, listings are created with
	// URLs as given and upload URLs are unavailable.
	var media usecase.MediaStore
	if cfg.StorageBucket != "" {
		storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.AllowedOrigins, opts...)
		if err != nil {
			log.Fatalf("Failed to initialize Cloud Storage: %v", err)
		}
		defer storageClient.Close()
		media = storageClient
	} else {
		log.Printf("STORAGE_BUCKET not set, media uploads disabled")
	}

	userRepo := repository.NewFirestoreUserRepository(firestoreClient, cfg.StoreTimeout)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient, cfg.StoreTimeout)
	requestRepo := repository.NewFirestoreRequestRepository(firestoreClient, cfg.StoreTimeout)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient, cfg.StoreTimeout)

	rateLimiter := ratelimit.NewRateLimiter(map[string]ratelimit.Rule{
		ratelimit.ActionSendMessage:   {Rate: rate.Limit(cfg.SendMessageRate), Burst: cfg.SendMessageBurst},
		ratelimit.ActionCreateRequest: {Rate: rate.Limit(cfg.CreateRequestRate), Burst: cfg.CreateRequestBurst},
	})
	rateLimiter.StartCleanupRoutine(5*time.Minute, ctx.Done())

	userUseCase := usecase.NewUserUseCase(userRepo)
	listingUseCase := usecase.NewListingUseCase(listingRepo, requestRepo, media)
	requestUseCase := usecase.NewRequestUseCase(requestRepo, listingRepo, userRepo, rateLimiter)
	chatUseCase := usecase.NewChatUseCase(chatRepo, requestRepo, listingRepo, userRepo, rateLimiter, cfg.MarkSeenTimeout)

	wsManager := websocket.NewManager(chatUseCase)
	wsManager.Start(ctx)

	handler.Setup(userUseCase, listingUseCase, requestUseCase, chatUseCase, wsManager, cfg.AllowedOrigins)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(firebase.NewFirebaseAuthClient(authClient))
	router.Setup(e, authMiddleware)

	go func() {
		log.Printf("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
