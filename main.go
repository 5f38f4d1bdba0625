package main

import (
	"context"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sopra-fs21-group-4/sopra-server/auth"
	"github.com/sopra-fs21-group-4/sopra-server/chat"
	"github.com/sopra-fs21-group-4/sopra-server/config"
	"github.com/sopra-fs21-group-4/sopra-server/crypto"
	"github.com/sopra-fs21-group-4/sopra-server/game"
	"github.com/sopra-fs21-group-4/sopra-server/migrations"
	"github.com/sopra-fs21-group-4/sopra-server/storage"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := migrations.Migrate(cfg.PostgresURL); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	pgRepo, err := storage.NewPostgresRepo(context.Background(), cfg.PostgresURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pgRepo.Close()

	tokenAge := time.Hour * 24 * 7 // 7 days
	passwordHasher := crypto.NewArgon2idHasher(3, 1024*64, 32, 16, 1)
	tokenManager := crypto.NewJWTManager(cfg.JWTKey, tokenAge)

	authService := auth.NewService(pgRepo, passwordHasher, tokenManager)
	authHandler := auth.NewAuthHandler(authService, tokenAge)

	chatService := chat.NewService()
	chatHandler := chat.NewHandler(chatService, pgRepo)

	registry := game.NewRegistry(pgRepo)
	gameService := game.NewService(registry, pgRepo, chatService)
	gameHandler := game.NewHandler(gameService, pgRepo)

	scheduler := game.NewScheduler(registry, gameService, pgRepo, chatService)
	go scheduler.Run(context.Background())

	r := CreateServer(cfg.AllowedOrigins)

	{
		authGroup := r.Group("/auth")
		authGroup.POST("/signup", authHandler.SignupHandler)
		authGroup.POST("/login", authHandler.LoginHandler)
		authGroup.POST("/logout", authHandler.LogoutHandler)
		authGroup.GET("/refresh", authHandler.RefreshSessionHandler)
	}

	requireAuth := authHandler.RequireAuthMiddleware(time.Second * 2)

	{
		games := r.Group("/games")
		games.Use(requireAuth)

		games.POST("", gameHandler.CreateGameHandler)
		games.GET("", gameHandler.GetGamesHandler)
		games.GET("/:gameid", gameHandler.GetGameHandler)
		games.GET("/:gameid/ws", gameHandler.GameSocketHandler)
		games.POST("/:gameid/join", gameHandler.JoinGameHandler)
		games.POST("/:gameid/leave", gameHandler.LeaveGameHandler)
		games.POST("/:gameid/start", gameHandler.StartGameHandler)
		games.POST("/:gameid/ready", gameHandler.SetReadyHandler)
		games.PUT("/:gameid/settings", gameHandler.AdaptSettingsHandler)
		games.PUT("/:gameid/suggestion", gameHandler.PutSuggestionHandler)
		games.PUT("/:gameid/vote", gameHandler.PutVoteHandler)
		games.POST("/:gameid/command", gameHandler.MasterCommandHandler)
	}

	r.GET("/summaries/:gameid", requireAuth, gameHandler.GetSummaryHandler)

	{
		channels := r.Group("/channels")
		channels.Use(requireAuth)
		channels.POST("/:channelid/messages", chatHandler.PostMessageHandler)
		channels.GET("/:channelid/messages", chatHandler.GetMessagesHandler)
	}

	log.Info().Str("addr", cfg.Addr).Msg("server listening")
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
