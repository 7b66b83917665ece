package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"social-service/internal/config"
	"social-service/internal/db"
	"social-service/internal/handlers"
	"social-service/internal/middleware"
	"social-service/internal/observability"
	"social-service/internal/rabbitmq"
	"social-service/internal/repositories"
	"social-service/internal/telemetry"
	"social-service/internal/ws"
)

func main() {
	cfg := config.Load()

	shutdownTracer, err := telemetry.InitTracer(context.Background(), cfg.OTLPEndpoint, "social-service", cfg.Environment)
	if err != nil {
		log.Fatalf("failed to init tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("tracer shutdown: %v", err)
		}
	}()

	database, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	if cfg.AMQPURL != "" {
		publisher, err := observability.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Printf("event publisher disabled: %v", err)
		} else {
			observability.SetPublisher(publisher)
			defer publisher.Close()
		}
	}

	auditPublisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer auditPublisher.Close()
	audit := telemetry.NewAuditEmitter(auditPublisher, cfg.AuditRoutingKey, "social-service", cfg.Environment)
	log.Printf("audit publisher mode=%s", rabbitmq.PublisherMode(auditPublisher))

	userRepo := repositories.NewUserRepo(database)
	friendRepo := repositories.NewFriendRepo(database)
	postRepo := repositories.NewPostRepo(database)
	commentRepo := repositories.NewCommentRepo(database)

	hub := ws.NewHub()

	userHandler := handlers.NewUserHandler(userRepo, cfg.JWTSecret, audit)
	friendHandler := handlers.NewFriendHandler(userRepo, friendRepo, audit)
	postHandler := handlers.NewPostHandler(postRepo, commentRepo, userRepo)
	socketHandler := ws.NewSocketHandler(hub, cfg.JWTSecret)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware("social-service"))

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)
	postOwner := middleware.RequirePostOwner(postRepo, userRepo)
	commentOwner := middleware.RequireCommentOwner(commentRepo, userRepo)

	user := router.Group("/user")
	{
		user.POST("/signIn", userHandler.SignIn)
		user.POST("/signUp", userHandler.SignUp)
		user.GET("/getMe", authMiddleware, userHandler.GetMe)
		user.POST("/changeMe", authMiddleware, userHandler.ChangeMe)
		user.POST("/changePassword", authMiddleware, userHandler.ChangePassword)
		user.GET("/myCollection", authMiddleware, postHandler.MyCollection)
		user.GET("/myPosts", authMiddleware, postHandler.MyPosts)
		user.GET("/myFriendRequest", authMiddleware, friendHandler.MyFriendRequests)
		user.GET("/myFriendList", authMiddleware, friendHandler.MyFriendList)
		user.POST("/requestFriend", authMiddleware, friendHandler.RequestFriend)
		user.POST("/confirmFriendRequest", authMiddleware, friendHandler.ConfirmFriendRequest)
		user.POST("/unfriend", authMiddleware, friendHandler.Unfriend)
		user.POST("/message", authMiddleware, friendHandler.SaveMessage)
		user.GET("/message/:roomId", authMiddleware, friendHandler.RoomMessages)
		user.GET("/:userId", authMiddleware, userHandler.GetUserInfo)
		user.GET("/:userId/posts", authMiddleware, postHandler.UserPosts)
		user.GET("/:userId/requested", authMiddleware, friendHandler.RequestStatus)
	}

	post := router.Group("/post")
	{
		post.GET("", postHandler.List)
		post.GET("/search", postHandler.Search)
		post.GET("/:id", postHandler.Show)
		post.GET("/:id/comment", postHandler.Comments)
		post.POST("", authMiddleware, postHandler.Create)
		post.PUT("", authMiddleware, postOwner, postHandler.Update)
		post.DELETE("", authMiddleware, postOwner, postHandler.Delete)
		post.POST("/likePost", authMiddleware, postHandler.Like)
		post.POST("/commentPost", authMiddleware, postHandler.CommentPost)
		post.POST("/savePost", authMiddleware, postHandler.SavePost)
		post.PUT("/comment", authMiddleware, commentOwner, postHandler.UpdateComment)
		post.DELETE("/comment", authMiddleware, commentOwner, postHandler.DeleteComment)
	}

	router.GET("/ws", socketHandler.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, audit, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
