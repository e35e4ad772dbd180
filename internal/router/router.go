package router

import (
	"log"
	"time"

	"associapro/config"
	"associapro/internal/handler"
	"associapro/internal/middleware"
	"associapro/internal/repository"
	"associapro/internal/service"
	"associapro/internal/ws"
	"associapro/pkg/asaas"
	"associapro/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, gateway *asaas.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(100, time.Minute))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	hub := ws.NewHub()

	// Services
	mailSvc := service.NewMailService(&cfg.SMTP)
	if mailSvc != nil {
		log.Printf("[MAIL] Email notifications enabled via %s", cfg.SMTP.Host)
	} else {
		log.Printf("[MAIL] Email notifications disabled: set SMTP_HOST to enable")
	}
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, hub, mailSvc)
	credentialSvc := service.NewCredentialService(db, credentialRepo, userRepo, paymentRepo, gateway, cfg.Server.PublicHost)
	webhookSvc := service.NewWebhookService(db, notifSvc, cfg.Server.PublicHost)
	paymentSvc := service.NewPaymentService(paymentRepo, userRepo, courseRepo, gateway, notifSvc)
	courseSvc := service.NewCourseService(courseRepo, notifSvc)
	certificateSvc := service.NewCertificateService(certificateRepo, courseRepo, userRepo, cloud)
	librarySvc := service.NewLibraryService(libraryRepo, notifSvc, cloud)
	monitoringSvc := service.NewMonitoringService(db, userRepo, paymentRepo, libraryRepo, hub, cloud, cfg.JWT.AccessSecret != "")

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	meHandler := handler.NewMeHandler(userRepo, cloud)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	webhookHandler := handler.NewWebhookHandler(webhookSvc, cfg.Asaas.WebhookToken)
	credentialHandler := handler.NewCredentialHandler(credentialSvc)
	certificateHandler := handler.NewCertificateHandler(certificateSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	libraryHandler := handler.NewLibraryHandler(librarySvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	monitoringHandler := handler.NewMonitoringHandler(&cfg.JWT, monitoringSvc)
	messageHandler := handler.NewMessageHandler(messageRepo)
	adminHandler := handler.NewAdminHandler(paymentSvc, credentialSvc, certificateSvc, librarySvc, notifSvc, userRepo, paymentRepo)

	// Gateway callbacks and function-style endpoints. CORS middleware answers
	// the OPTIONS preflight.
	r.POST("/functions/asaas-webhook", webhookHandler.HandleAsaas)
	r.POST("/functions/monitoring", monitoringHandler.Handle)

	// Public pages
	r.GET("/validar-credencial", credentialHandler.Validate)
	r.GET("/verificar-certificado/:id", certificateHandler.Verify)
	r.POST("/contato", messageHandler.Submit)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		// tighter limit against credential stuffing
		authGroup.Use(middleware.RateLimit(20, time.Minute))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		authed := api.Group("")
		authed.Use(middleware.AuthRequired(&cfg.JWT))
		{
			authed.POST("/auth/change-password", authHandler.ChangePassword)

			me := authed.Group("/me")
			{
				me.GET("", meHandler.GetProfile)
				me.PATCH("", meHandler.UpdateProfile)
				me.POST("/photo", meHandler.UploadPhoto)
				me.GET("/payments", paymentHandler.History)
				me.GET("/credential", credentialHandler.Mine)
				me.GET("/certificates", certificateHandler.Mine)
				me.GET("/downloads", libraryHandler.MyDownloads)
				me.GET("/enrollments", courseHandler.MyEnrollments)
			}

			authed.POST("/payments/checkout", paymentHandler.Checkout)
			authed.GET("/payments/gateway/:asaas_id", paymentHandler.GatewayStatus)
			authed.POST("/credentials/generate", credentialHandler.Generate)
			authed.POST("/certificates/generate", certificateHandler.Generate)

			courses := authed.Group("/courses")
			{
				courses.GET("", courseHandler.List)
				courses.GET("/:id", courseHandler.Get)
				courses.POST("/:id/enroll", courseHandler.Enroll)
				courses.PATCH("/:id/progress", courseHandler.Progress)
			}

			library := authed.Group("/library")
			{
				library.GET("", libraryHandler.List)
				library.GET("/popular", libraryHandler.Popular)
				library.GET("/:id", libraryHandler.Get)
				library.POST("/:id/download", libraryHandler.Download)
			}

			notifications := authed.Group("/notifications")
			{
				notifications.GET("", notificationHandler.List)
				notifications.GET("/unread-count", notificationHandler.UnreadCount)
				notifications.POST("/:id/read", notificationHandler.MarkRead)
				notifications.POST("/read-all", notificationHandler.MarkAllRead)
				notifications.DELETE("/:id", notificationHandler.Delete)
			}
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(&cfg.JWT), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/payments", adminHandler.ListPayments)
			admin.GET("/payments/export", adminHandler.ExportPayments)
			admin.POST("/payments/status", adminHandler.UpdatePaymentStatus)
			admin.POST("/credentials/issue", adminHandler.IssueCredential)
			admin.POST("/notifications/broadcast", adminHandler.Broadcast)
			admin.GET("/messages", messageHandler.List)
			admin.POST("/messages/:id/read", messageHandler.MarkRead)

			admin.POST("/courses", courseHandler.Create)
			admin.PUT("/courses/:id", courseHandler.Update)
			admin.DELETE("/courses/:id", courseHandler.Delete)
			admin.POST("/courses/:id/modules", courseHandler.AddModule)
			admin.POST("/modules/:module_id/lessons", courseHandler.AddLesson)

			admin.POST("/library", libraryHandler.Create)
			admin.PUT("/library/:id", libraryHandler.Update)
			admin.DELETE("/library/:id", libraryHandler.Delete)
		}
	}

	r.GET("/ws/notifications", ws.UpgradeNotificationWS(&cfg.JWT, hub))

	return r
}
