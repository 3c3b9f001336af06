package main

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"pos_backend/internal/database"
	"pos_backend/internal/gateway"
	"pos_backend/internal/router"
	"pos_backend/pkg/utils"
)

func main() {
	utils.LoadDotEnv()
	utils.InitLogger()

	db, err := database.InitDB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     utils.Getenv("REDIS_ADDR", "localhost:6379"),
		Password: utils.Getenv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	gatewayTimeout := 10 * time.Second
	if raw := utils.Getenv("GATEWAY_TIMEOUT_SECONDS", ""); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			gatewayTimeout = time.Duration(seconds) * time.Second
		}
	}
	gatewayClient := gateway.NewClient(
		utils.Getenv("GATEWAY_BASE_URL", "https://api.paygate.example.com"),
		utils.Getenv("GATEWAY_SECRET_KEY", ""),
		gatewayTimeout,
	)

	if utils.Getenv("GIN_MODE", "") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Session-Id")
	engine.Use(cors.New(corsConfig))

	router.Setup(engine, router.Dependencies{
		DB:            db,
		Redis:         redisClient,
		GatewayClient: gatewayClient,
	})

	port := utils.Getenv("PORT", "8080")
	log.Info().Str("port", port).Msg("Starting server")
	if err := engine.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
