package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"social-app/content-service/internal/config"
	"social-app/content-service/internal/handler"
	"social-app/content-service/internal/identity"
	"social-app/content-service/internal/services"
	"social-app/content-service/internal/storage"
	"social-app/content-service/internal/utils"
)

func main() {
	baseCtx := context.Background()
	ctx, shutdownManager := utils.NewShutdownManager(baseCtx)
	shutdownManager.StartListening()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	db := mongoClient.Database(cfg.MongoDB)

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing MongoDB connection...")
		return mongoClient.Disconnect(ctx)
	})

	minioClient, err := utils.NewMinioClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket)
	if err != nil {
		log.Fatalf("minio init: %v", err)
	}

	redisClient, err := utils.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis init: %v", err)
	}
	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing Redis connection...")
		return redisClient.Close()
	})

	blobs := storage.NewMinioBlobStore(minioClient, cfg.MinioBucket, cfg.MinioPublicURL)
	docs := storage.NewMongoDocumentStore(db)
	provider := identity.NewClient(cfg.IdentityURL, cfg.IdentityAPIKey)
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret)

	uploads := services.NewUploadService(blobs, docs, cfg.OpTimeout)
	avatars := services.NewAvatarService(blobs, docs, cfg.OpTimeout)
	accounts := services.NewAccountService(blobs, docs, provider, cfg.DeleteWorkers, cfg.OpTimeout)
	feed := services.NewFeedService(docs, cfg.FeedOwnerCap, cfg.OpTimeout)
	auth := services.NewAuthService(docs, provider, jwtUtil, redisClient)
	users := services.NewUsersService(docs, provider, redisClient)

	authHandler := handler.NewAuthHandler(auth)
	mediaHandler := handler.NewMediaHandler(uploads, avatars, feed, users)
	usersHandler := handler.NewUsersHandler(users, accounts)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.RedirectTrailingSlash = false

	authMW := utils.AuthMiddleware(jwtUtil, redisClient)

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)
	router.POST("/auth/verify", authHandler.Verify)
	router.POST("/auth/logout", authMW, authHandler.Logout)
	router.GET("/auth/me", authMW, authHandler.Me)

	router.GET("/feed", mediaHandler.GetFeed)

	posts := router.Group("/posts")
	posts.Use(authMW)
	{
		posts.POST("", mediaHandler.UploadPost)
		posts.DELETE("/:postId", mediaHandler.DeletePost)
	}

	usersGroup := router.Group("/users")
	usersGroup.Use(authMW)
	{
		usersGroup.GET("/:userId", usersHandler.GetUser)
		usersGroup.GET("/:userId/posts", mediaHandler.GetUserPosts)
	}

	me := router.Group("/profile")
	me.Use(authMW)
	{
		me.PATCH("", usersHandler.UpdateProfile)
		me.DELETE("/account", usersHandler.DeleteAccount)
		me.POST("/avatar", mediaHandler.UploadAvatar)
		me.DELETE("/avatar", mediaHandler.DeleteAvatar)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Println("Content Service running on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Shutting down HTTP server...")
		return server.Shutdown(ctx)
	})

	select {}
}
