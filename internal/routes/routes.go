package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dong279/mumu-express/internal/handlers"
	"github.com/dong279/mumu-express/internal/middleware"
	"github.com/dong279/mumu-express/internal/services"
)

type Handlers struct {
	User         *handlers.UserHandler
	Auth         *handlers.AuthHandler
	Phone        *handlers.PhoneHandler
	Password     *handlers.PasswordResetHandler
	Follow       *handlers.FollowHandler
	Community    *handlers.CommunityHandler
	Engagement   *handlers.EngagementHandler
	Pet          *handlers.PetHandler
	Hospital     *handlers.HospitalHandler
	Notification *handlers.NotificationHandler
	Report       *handlers.ReportHandler
	Analysis     *handlers.AnalysisHandler
	HealthReport *handlers.HealthReportHandler
	Map          *handlers.MapHandler
	Upload       *handlers.UploadHandler
}

// SetupRoutes вешает все маршруты на /api. Публичные и защищённые
// группы разделены явными middleware, а не глобальным Use.
func SetupRoutes(r *gin.Engine, h Handlers, tokens services.TokenService, rateLimitPerMinute int) {
	api := r.Group("/api")
	api.Use(middleware.RateLimit(rateLimitPerMinute))

	authRequired := middleware.AuthRequired(tokens)
	authOptional := middleware.AuthOptional(tokens)

	// ---- users
	users := api.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.GET("/profile", authRequired, h.User.GetProfile)
		users.PUT("/profile", authRequired, h.User.UpdateProfile)
		users.POST("/:userId/block", authRequired, h.User.Block)
		users.DELETE("/:userId/block", authRequired, h.User.Unblock)
		users.GET("/blocked", authRequired, h.User.ListBlocked)
		users.DELETE("/account", authRequired, h.User.DeleteAccount)
	}

	// ---- auth
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.User.Login) // алиас старого клиента
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
		auth.POST("/logout-all", authRequired, h.Auth.LogoutAll)
	}

	// ---- phone verification
	phone := api.Group("/phone")
	{
		phone.POST("/send-code", h.Phone.SendCode)
		phone.POST("/verify-code", authOptional, h.Phone.VerifyCode)
		phone.GET("/status", h.Phone.Status)
	}

	// ---- password reset
	password := api.Group("/password")
	{
		password.POST("/reset-request", h.Password.RequestReset)
		password.POST("/reset-confirm", h.Password.ConfirmReset)
	}

	// ---- follows
	follows := api.Group("/follows")
	{
		follows.POST("/:userId", authRequired, h.Follow.Follow)
		follows.DELETE("/:userId", authRequired, h.Follow.Unfollow)
		follows.GET("/followers/:userId", h.Follow.Followers)
		follows.GET("/following/:userId", h.Follow.Following)
		follows.GET("/me/followers", authRequired, h.Follow.MyFollowers)
		follows.GET("/me/following", authRequired, h.Follow.MyFollowing)
	}

	// ---- likes / bookmarks
	likes := api.Group("/likes", authRequired)
	{
		likes.POST("/community/:communityId", h.Engagement.ToggleLike)
		likes.POST("/comment/:commentId", h.Engagement.ToggleCommentLike)
	}
	bookmarks := api.Group("/bookmarks", authRequired)
	{
		bookmarks.GET("", h.Engagement.ListBookmarks)
		bookmarks.POST("/:communityId", h.Engagement.ToggleBookmark)
	}

	// ---- community
	community := api.Group("/community")
	{
		community.GET("", h.Community.ListPosts)
		community.GET("/best", h.Community.ListBest)
		community.GET("/:communityId", h.Community.GetPost)
		community.POST("", authRequired, h.Community.CreatePost)
		community.PUT("/:communityId", authRequired, h.Community.UpdatePost)
		community.DELETE("/:communityId", authRequired, h.Community.DeletePost)
		community.GET("/:communityId/comments", h.Community.ListComments)
		community.POST("/:communityId/comments", authRequired, h.Community.CreateComment)
		community.PUT("/comments/:commentId", authRequired, h.Community.UpdateComment)
		community.DELETE("/comments/:commentId", authRequired, h.Community.DeleteComment)
	}

	// ---- pets
	pets := api.Group("/pets", authRequired)
	{
		pets.POST("", h.Pet.Create)
		pets.GET("", h.Pet.List)
		pets.GET("/:petId", h.Pet.Get)
		pets.PUT("/:petId", h.Pet.Update)
		pets.DELETE("/:petId", h.Pet.Delete)
	}

	// ---- hospitals
	hospitals := api.Group("/hospitals")
	{
		hospitals.GET("", h.Hospital.Search)
		hospitals.GET("/prices", h.Hospital.SearchPrices)
		hospitals.GET("/favorites", authRequired, h.Hospital.ListFavorites)
		hospitals.GET("/:hospitalId", h.Hospital.GetDetail)
		hospitals.GET("/:hospitalId/reviews", h.Hospital.ListReviews)
		hospitals.POST("/:hospitalId/reviews", authRequired, h.Hospital.CreateReview)
		hospitals.POST("/:hospitalId/favorite", authRequired, h.Hospital.ToggleFavorite)
	}

	// ---- notifications / fcm
	notifications := api.Group("/notifications", authRequired)
	{
		notifications.GET("", h.Notification.List)
		notifications.PUT("/read-all", h.Notification.MarkAllRead)
		notifications.PUT("/:notificationId/read", h.Notification.MarkRead)
		notifications.DELETE("/:notificationId", h.Notification.Delete)
	}
	fcm := api.Group("/fcm", authRequired)
	{
		fcm.POST("/register", h.Notification.RegisterDevice)
		fcm.POST("/unregister", h.Notification.RemoveDevice)
	}

	// ---- reports
	reports := api.Group("/reports", authRequired)
	{
		reports.POST("", h.Report.Create)
		reports.GET("", h.Report.ListMine)
	}

	// ---- AI analyses; вебхук вне authRequired, он защищён секретом
	analyses := api.Group("/analyses")
	{
		analyses.POST("/:kind/webhook", h.Analysis.Webhook)
		analyses.POST("/:kind", authRequired, h.Analysis.Create)
		analyses.GET("/:kind/pet/:petId", authRequired, h.Analysis.ListByPet)
		analyses.GET("/:kind/:analysisId", authRequired, h.Analysis.Get)
	}

	// ---- health reports
	healthReports := api.Group("/health-reports", authRequired)
	{
		healthReports.POST("", h.HealthReport.Create)
		healthReports.GET("/pet/:petId", h.HealthReport.ListByPet)
		healthReports.GET("/:reportId", h.HealthReport.Get)
		healthReports.GET("/:reportId/pdf", h.HealthReport.DownloadPDF)
	}

	// ---- uploads
	api.POST("/uploads", authRequired, h.Upload.Upload)

	// ---- map proxy
	mapGroup := api.Group("/map")
	{
		mapGroup.GET("/search", h.Map.SearchKeyword)
		mapGroup.GET("/address", h.Map.SearchAddress)
		mapGroup.GET("/coord2address", h.Map.Coord2Address)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Route not found"})
	})
}
