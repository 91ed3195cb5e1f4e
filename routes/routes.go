// File: /routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"sectornet-api/config"
	"sectornet-api/controllers"
	"sectornet-api/middleware"
	"sectornet-api/repositories"
	"sectornet-api/services"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, cache *redis.Client, emailService *services.EmailService, hub *services.RealtimeHub) {
	// Repositories and services
	rel := repositories.NewRelationshipRepository(db, cache)
	notifier := services.NewNotificationService(db)
	cascade := services.NewCascadeService(db)
	fingerprint := services.NewFingerprintService(db)
	visibility := services.NewVisibilityService(db, rel)
	votes := services.NewVoteService(db, cascade, notifier)
	groups := services.NewGroupService(db, rel, cascade, notifier)

	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret, cfg.DefaultSector, emailService)
	userController := controllers.NewUserController(db, rel, cascade)
	friendController := controllers.NewFriendController(db, rel, notifier)
	postController := controllers.NewPostController(db, rel, visibility, votes, fingerprint, cascade)
	commentController := controllers.NewCommentController(db, visibility, notifier)
	groupController := controllers.NewGroupController(db, rel, groups)
	chatController := controllers.NewChatController(db, hub)
	notificationController := controllers.NewNotificationController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")

	// Auth routes (public)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/send-verification", authController.SendVerification)
		auth.POST("/verify-code", authController.VerifyCode)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/auth/me", authController.Me)

		// User routes
		users := protected.Group("/users")
		{
			users.GET("/search", userController.SearchUsers)
			users.GET("/sectors", userController.GetSectors)
			users.PUT("/settings", userController.UpdateSettings)
			users.DELETE("/me", userController.DeleteAccount)
			users.GET("/:user_id", userController.GetUser)
			users.POST("/:user_id/follow", userController.FollowUser)
			users.DELETE("/:user_id/follow", userController.UnfollowUser)
			users.POST("/:user_id/block", userController.BlockUser)
			users.DELETE("/:user_id/block", userController.UnblockUser)
			users.GET("/:user_id/posts", postController.GetUserPosts)
		}

		// Friend routes
		friends := protected.Group("/friends")
		{
			friends.GET("/", friendController.GetFriends)
			friends.GET("/requests", friendController.GetFriendRequests)
			friends.POST("/requests/:user_id", friendController.SendFriendRequest)
			friends.PUT("/requests/:request_id/accept", friendController.AcceptFriendRequest)
			friends.PUT("/requests/:request_id/reject", friendController.RejectFriendRequest)
			friends.DELETE("/:user_id", friendController.RemoveFriend)
		}

		// Post routes
		posts := protected.Group("/posts")
		{
			posts.POST("/", postController.CreatePost)
			posts.GET("/feed", postController.GetFeed)
			posts.GET("/feed/following", postController.GetFollowingFeed)
			posts.GET("/:post_id", postController.GetPost)
			posts.DELETE("/:post_id", postController.DeletePost)
			posts.POST("/:post_id/vote", postController.VotePost)
			posts.POST("/:post_id/react", postController.ReactToPost)
			posts.POST("/:post_id/share", postController.SharePost)
			posts.GET("/:post_id/comments", commentController.GetComments)
			posts.POST("/:post_id/comments", commentController.CreateComment)
		}

		protected.DELETE("/comments/:comment_id", commentController.DeleteComment)

		// Group routes
		groupRoutes := protected.Group("/groups")
		{
			groupRoutes.GET("/", groupController.GetGroups)
			groupRoutes.POST("/", groupController.CreateGroup)
			groupRoutes.GET("/mine", groupController.GetMyGroups)
			groupRoutes.GET("/:group_id", groupController.GetGroup)
			groupRoutes.DELETE("/:group_id", groupController.DeleteGroup)
			groupRoutes.POST("/:group_id/join", groupController.JoinGroup)
			groupRoutes.DELETE("/:group_id/leave", groupController.LeaveGroup)
			groupRoutes.GET("/:group_id/members", groupController.GetMembers)
			groupRoutes.POST("/:group_id/invite", groupController.InviteMembers)
			groupRoutes.GET("/:group_id/requests", groupController.GetJoinRequests)
			groupRoutes.GET("/:group_id/posts", postController.GetGroupPosts)
		}
		protected.PUT("/group-requests/:request_id", groupController.DecideJoinRequest)

		// Chat routes
		chats := protected.Group("/chats")
		{
			chats.GET("/", chatController.GetChats)
			chats.POST("/", chatController.CreateChat)
			chats.GET("/:chat_id/messages", chatController.GetMessages)
			chats.POST("/:chat_id/messages", chatController.SendMessage)
		}
		protected.GET("/ws", chatController.Connect)

		// Notification routes
		notifications := protected.Group("/notifications")
		{
			notifications.GET("/", notificationController.GetNotifications)
			notifications.GET("/stats", notificationController.GetNotificationStats)
			notifications.PUT("/:id/read", notificationController.MarkAsRead)
			notifications.PUT("/read-all", notificationController.MarkAllAsRead)
			notifications.DELETE("/:id", notificationController.DeleteNotification)
		}
	}
}
