package main

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"

	"github.com/youthfc/team-manager-service/internal/config"
	"github.com/youthfc/team-manager-service/internal/handler"
	"github.com/youthfc/team-manager-service/internal/logger"
	"github.com/youthfc/team-manager-service/internal/notify"
	fsrepo "github.com/youthfc/team-manager-service/internal/repository/firestore"
	"github.com/youthfc/team-manager-service/internal/service"
	"github.com/youthfc/team-manager-service/pkg/auth"
)

func main() {
	ctx := context.Background()

	// Load application config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	// Firestore client and Firebase app share credentials. An empty
	// credentials_json falls back to application default credentials.
	var opts []option.ClientOption
	if cfg.Firestore.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.Firestore.CredentialsJSON)))
	}

	client, err := firestore.NewClient(ctx, cfg.Firestore.ProjectID, opts...)
	if err != nil {
		log.Fatalf("❌ Firestore connection failed: %v", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			appLogger.Warn().Err(err).Msg("firestore client close failed")
		}
	}()

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firestore.ProjectID}, opts...)
	if err != nil {
		log.Fatalf("❌ Firebase initialization failed: %v", err)
	}

	playerRepo := fsrepo.NewPlayerRepository(client)
	matchRepo := fsrepo.NewMatchRepository(client)
	statsRepo := fsrepo.NewStatsRepository(client)

	hub := notify.NewHub(appLogger)
	go hub.Run()

	playerSvc := service.NewPlayerService(playerRepo, appLogger)
	statsSvc := service.NewStatsService(statsRepo, playerRepo, matchRepo, appLogger)
	matchSvc := service.NewMatchService(matchRepo, playerRepo, statsSvc, hub, appLogger)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	if len(corsConfig.AllowOrigins) > 0 {
		router.Use(cors.New(corsConfig))
	}

	handler.Register(router, handler.Options{
		Pinger:       fsrepo.NewPinger(client),
		PlayerSvc:    playerSvc,
		MatchSvc:     matchSvc,
		StatsSvc:     statsSvc,
		Authenticate: auth.Middleware(firebaseApp),
		CoachOnly:    auth.RequireRole(auth.RoleCoach, auth.RoleAdmin),
		ServeWS:      hub.ServeWS,
	})

	appLogger.Info().Str("port", cfg.Server.Port).Msg("🚀 Service started")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		appLogger.Fatal().Err(err).Msg("server stopped")
	}
}
