package main

import (
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/teamqa/teamqa-api/internal/config"
	"github.com/teamqa/teamqa-api/internal/constants"
	"github.com/teamqa/teamqa-api/internal/database"
	"github.com/teamqa/teamqa-api/internal/handlers"
	"github.com/teamqa/teamqa-api/internal/logger"
	"github.com/teamqa/teamqa-api/internal/middleware"
	"github.com/teamqa/teamqa-api/internal/repository"
	"github.com/teamqa/teamqa-api/internal/services"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	log := logger.New(cfg.GinMode)
	defer log.Sync()

	if err := database.Connect(cfg); err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatal("failed to create indexes", "error", err)
	}

	r := gin.Default()

	// Session store backed by Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatal("failed to create Redis store", "error", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Wire repositories, services and handlers
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	tagRepo := repository.NewTagRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationService := services.NewNotificationService(notificationRepo, log)
	authService := services.NewAuthService(userRepo)
	teamService := services.NewTeamService(teamRepo, userRepo, tagRepo)
	questionService := services.NewQuestionService(questionRepo, teamRepo)
	answerService := services.NewAnswerService(answerRepo, questionRepo, teamRepo, notificationService)
	commentService := services.NewCommentService(commentRepo, questionRepo, answerRepo, teamRepo, notificationService)
	voteService := services.NewVoteService(voteRepo, questionRepo, answerRepo, teamRepo, notificationService)
	bookmarkService := services.NewBookmarkService(bookmarkRepo, questionRepo, teamRepo)

	authHandler := handlers.NewAuthHandler(authService, cfg)
	teamHandler := handlers.NewTeamHandler(teamService)
	adminHandler := handlers.NewAdminHandler(teamService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	answerHandler := handlers.NewAnswerHandler(answerService)
	commentHandler := handlers.NewCommentHandler(commentService)
	voteHandler := handlers.NewVoteHandler(voteService)
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		if err := database.Ping(); err != nil {
			c.JSON(503, gin.H{
				"status": "degraded",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public except /me and /profile)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(cfg), authHandler.GetCurrentUser)
			auth.PUT("/profile", middleware.RequireAuth(cfg), authHandler.UpdateProfile)
		}

		// Team routes (protected)
		teams := api.Group("/teams")
		teams.Use(middleware.RequireAuth(cfg))
		{
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("", teamHandler.ListTeams)
			teams.POST("/invites/accept", teamHandler.AcceptInvite)
			teams.GET("/:slug", middleware.RequireTeamAccess(), teamHandler.GetTeam)
			teams.GET("/:slug/members", middleware.RequireTeamAccess(), teamHandler.ListMembers)
			teams.GET("/:slug/tags", middleware.RequireTeamAccess(), teamHandler.ListTags)
			teams.POST("/:slug/leave", middleware.RequireTeamAccess(), teamHandler.LeaveTeam)
		}

		// Admin routes (admin role required)
		admin := api.Group("/admin/:teamId")
		admin.Use(middleware.RequireAuth(cfg), middleware.RequireTeamAdmin())
		{
			admin.PUT("", adminHandler.UpdateTeam)
			admin.GET("/members", adminHandler.ListMembers)
			admin.POST("/members", adminHandler.AddMember)
			admin.PUT("/members/:userId/role", adminHandler.ChangeRole)
			admin.DELETE("/members/:userId", adminHandler.RemoveMember)
			admin.GET("/invites", adminHandler.ListInvites)
			admin.POST("/invites", adminHandler.CreateInvite)
			admin.DELETE("/invites/:inviteId", adminHandler.CancelInvite)
		}

		// Question routes (protected)
		questions := api.Group("/questions")
		questions.Use(middleware.RequireAuth(cfg))
		{
			questions.GET("", questionHandler.ListQuestions)
			questions.POST("", questionHandler.CreateQuestion)
			questions.GET("/:id", questionHandler.GetQuestion)
			questions.PUT("/:id", questionHandler.UpdateQuestion)
			questions.DELETE("/:id", questionHandler.DeleteQuestion)
			questions.POST("/:id/close", questionHandler.CloseQuestion)
			questions.POST("/:id/reopen", questionHandler.ReopenQuestion)
		}

		// Answer routes (protected)
		answers := api.Group("/answers")
		answers.Use(middleware.RequireAuth(cfg))
		{
			answers.GET("/question/:id", answerHandler.ListAnswers)
			answers.POST("", answerHandler.CreateAnswer)
			answers.PUT("/:id", answerHandler.UpdateAnswer)
			answers.DELETE("/:id", answerHandler.DeleteAnswer)
			answers.POST("/:id/accept", answerHandler.AcceptAnswer)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(middleware.RequireAuth(cfg))
		{
			comments.GET("", commentHandler.ListComments)
			comments.POST("", commentHandler.CreateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}

		// Vote routes (protected)
		votes := api.Group("/votes")
		votes.Use(middleware.RequireAuth(cfg))
		{
			votes.GET("", voteHandler.GetVote)
			votes.POST("", voteHandler.CastVote)
		}

		// Bookmark routes (protected)
		bookmarks := api.Group("/bookmarks")
		bookmarks.Use(middleware.RequireAuth(cfg))
		{
			bookmarks.GET("", bookmarkHandler.ListBookmarks)
			bookmarks.POST("", bookmarkHandler.ToggleBookmark)
			bookmarks.GET("/check", bookmarkHandler.CheckBookmark)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth(cfg))
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		}
	}

	log.Info("server starting", "addr", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatal("failed to start server", "error", err)
	}
}
