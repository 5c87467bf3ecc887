package main

import (
	"context"
	"net/http"
	"time"

	_ "time/tzdata" // Load timezone data

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/nconnect/society-backend/internal/app"
	"github.com/nconnect/society-backend/internal/config"
	"github.com/nconnect/society-backend/internal/controllers"
	"github.com/nconnect/society-backend/internal/middleware"
	"github.com/nconnect/society-backend/internal/occupancy"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/routes"
	"github.com/nconnect/society-backend/internal/services"
	"github.com/nconnect/society-backend/internal/utils"
)

const seedTimeout = 30 * time.Second

func main() {
	utils.InitLogger(config.DefaultAppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize the application:", err)
	}
	defer application.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(application.DB)
	unitRepo := repositories.NewUnitRepository(application.DB)
	tenancyRepo := repositories.NewTenancyRequestRepository(application.DB)
	vehicleRepo := repositories.NewVehicleRepository(application.DB)
	complaintRepo := repositories.NewComplaintRepository(application.DB)
	billRepo := repositories.NewBillRepository(application.DB)
	cameraRepo := repositories.NewCameraRequestRepository(application.DB)
	notificationRepo := repositories.NewNotificationRepository(application.DB)
	activityRepo := repositories.NewActivityLogRepository(application.DB)
	categoryRepo := repositories.NewForumCategoryRepository(application.DB)
	postRepo := repositories.NewForumPostRepository(application.DB)
	commentRepo := repositories.NewForumCommentRepository(application.DB)
	statsRepo := repositories.NewStatsRepository(application.DB)

	// Seed from SEED_FILE, or the built-in defaults when the flag allows it.
	if cfg.SeedFile != "" || cfg.LDFlag_SeedDbWithDefaults {
		data, err := app.LoadSeed(cfg.SeedFile)
		if err != nil {
			utils.Logger.Fatal("Failed to load seed data:", err)
		}
		seedCtx, seedCancel := context.WithTimeout(context.Background(), seedTimeout)
		err = app.Seed(seedCtx, data, userRepo, categoryRepo)
		seedCancel()
		if err != nil {
			utils.Logger.Fatal("Failed to seed database:", err)
		}
	}

	// Occupancy
	occupancyManager := occupancy.NewManager(repositories.NewOccupancyStore(application.DB))

	// Notification delivery
	delivery := services.DeliveryOptions{
		EmailEnabled: cfg.LDFlag_NotificationsSendEmail,
		SMSEnabled:   cfg.LDFlag_NotificationsSendSMS,
	}
	if cfg.EmailDeliveryConfigured() {
		delivery.Email = services.NewSendGridEmailSender(
			cfg.SendgridAPIKey, cfg.OrganizationName, cfg.LDFlag_SendgridFromEmail, cfg.LDFlag_SendgridSandboxMode,
		)
	} else {
		utils.Logger.Info("SendGrid not configured; e-mail notifications disabled")
	}
	if cfg.SMSDeliveryConfigured() {
		delivery.SMS = services.NewTwilioSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.LDFlag_TwilioFromPhone)
	} else {
		utils.Logger.Info("Twilio not configured; SMS notifications disabled")
	}

	// Services
	callers := services.NewCallerResolver(userRepo, unitRepo)
	userService := services.NewUserService(userRepo, unitRepo, occupancyManager, activityRepo)
	unitService := services.NewUnitService(unitRepo, occupancyManager, callers, activityRepo)
	tenancyService := services.NewTenancyRequestService(tenancyRepo, unitRepo, occupancyManager, callers, activityRepo)
	vehicleService := services.NewVehicleService(vehicleRepo, callers, activityRepo)
	complaintService := services.NewComplaintService(complaintRepo, callers, activityRepo)
	billService := services.NewBillService(billRepo, unitRepo, callers, activityRepo)
	cameraService := services.NewCameraRequestService(cameraRepo, callers, activityRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, callers, activityRepo, delivery)
	activityService := services.NewActivityService(activityRepo, callers)
	forumService := services.NewForumService(categoryRepo, postRepo, commentRepo, callers, activityRepo)
	dashboardService := services.NewDashboardService(statsRepo, activityRepo)
	maintenanceService := services.NewMaintenanceService(billRepo, cameraRepo)

	// Controllers
	healthController := controllers.NewHealthController(application)
	userController := controllers.NewUserController(userService)
	unitController := controllers.NewUnitController(unitService)
	tenancyController := controllers.NewTenancyRequestController(tenancyService)
	vehicleController := controllers.NewVehicleController(vehicleService)
	complaintController := controllers.NewComplaintController(complaintService)
	billController := controllers.NewBillController(billService)
	cameraController := controllers.NewCameraRequestController(cameraService)
	notificationController := controllers.NewNotificationController(notificationService)
	activityController := controllers.NewActivityController(activityService)
	forumController := controllers.NewForumController(forumService)
	dashboardController := controllers.NewDashboardController(dashboardService)

	// Overdue bills and camera access expiry
	c := cron.New()
	if err := maintenanceService.Register(c); err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule maintenance jobs")
	}
	c.Start()
	defer func() {
		<-c.Stop().Done()
	}()

	// Router
	router := mux.NewRouter()
	router.Use(middleware.SecurityHeaders, middleware.RequestMetrics, middleware.ClientInfo)

	// Health and metrics
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.Handle(routes.Metrics, promhttp.Handler()).Methods(http.MethodGet)

	// Protected routes (JWT middleware)
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	// Admin routes (JWT + admin role)
	admin := secured.NewRoute().Subrouter()
	admin.Use(middleware.RequireAdmin)

	secured.HandleFunc(routes.UserStatus, userController.StatusHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Profile, userController.UpdateProfileHandler).Methods(http.MethodPut)

	admin.HandleFunc(routes.AdminDashboard, dashboardController.GetHandler).Methods(http.MethodGet)

	// Users
	admin.HandleFunc(routes.Users, userController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.Users, userController.CreateHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.UserByID, userController.GetHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.UserByID, userController.UpdateHandler).Methods(http.MethodPatch)
	admin.HandleFunc(routes.UserByID, userController.DeactivateHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.UserAssignUnit, userController.AssignUnitHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.UserRemoveFromUnit, userController.RemoveFromUnitHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.UserResetPassword, userController.ResetPasswordHandler).Methods(http.MethodPost)

	// Units
	secured.HandleFunc(routes.Units, unitController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.Units, unitController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.UnitByID, unitController.GetHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.UnitByID, unitController.UpdateHandler).Methods(http.MethodPatch)
	admin.HandleFunc(routes.UnitByID, unitController.DeleteHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.UnitAssignments, unitController.AssignmentsHandler).Methods(http.MethodGet)

	// Tenancy requests
	secured.HandleFunc(routes.TenancyRequests, tenancyController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.TenancyRequests, tenancyController.CreateHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.TenancyRequestApprove, tenancyController.ApproveHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.TenancyRequestReject, tenancyController.RejectHandler).Methods(http.MethodPost)

	// Vehicles; search is registered before {id}
	secured.HandleFunc(routes.VehicleSearch, vehicleController.SearchHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Vehicles, vehicleController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Vehicles, vehicleController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.VehicleByID, vehicleController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.VehicleByID, vehicleController.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.VehicleByID, vehicleController.DeleteHandler).Methods(http.MethodDelete)

	// Complaints; mine is registered before {id}
	secured.HandleFunc(routes.ComplaintsMine, complaintController.MineHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Complaints, complaintController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Complaints, complaintController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ComplaintByID, complaintController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ComplaintByID, complaintController.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.ComplaintByID, complaintController.DeleteHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.ComplaintUpdateStatus, complaintController.UpdateStatusHandler).Methods(http.MethodPost)

	// Bills
	secured.HandleFunc(routes.Bills, billController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.Bills, billController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.BillByID, billController.GetHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.BillByID, billController.UpdateHandler).Methods(http.MethodPatch)
	admin.HandleFunc(routes.BillByID, billController.DeleteHandler).Methods(http.MethodDelete)
	secured.HandleFunc(routes.BillReceipt, billController.ReceiptHandler).Methods(http.MethodGet)

	// Camera requests
	secured.HandleFunc(routes.CameraRequests, cameraController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CameraRequests, cameraController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.CameraRequestByID, cameraController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CameraRequestByID, cameraController.DeleteHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.CameraRequestProcess, cameraController.ProcessHandler).Methods(http.MethodPost)

	// Notifications
	secured.HandleFunc(routes.Notifications, notificationController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.Notifications, notificationController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.NotificationByID, notificationController.GetHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.NotificationByID, notificationController.DeleteHandler).Methods(http.MethodDelete)
	secured.HandleFunc(routes.NotificationMarkRead, notificationController.MarkReadHandler).Methods(http.MethodPost)

	// Activity
	secured.HandleFunc(routes.Activity, activityController.ListHandler).Methods(http.MethodGet)

	// Forum
	secured.HandleFunc(routes.ForumCategories, forumController.CategoriesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ForumPosts, forumController.ListPostsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ForumPosts, forumController.CreatePostHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ForumPostByID, forumController.GetPostHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ForumPostByID, forumController.UpdatePostHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.ForumPostByID, forumController.DeletePostHandler).Methods(http.MethodDelete)
	secured.HandleFunc(routes.ForumPostUpvote, forumController.UpvoteHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ForumPostDownvote, forumController.DownvoteHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ForumComments, forumController.ListCommentsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.ForumComments, forumController.CreateCommentHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.ForumCommentByID, forumController.UpdateCommentHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.ForumCommentByID, forumController.DeleteCommentHandler).Methods(http.MethodDelete)

	allowedOrigins := []string{}
	if cfg.AppUrl != "" {
		allowedOrigins = append(allowedOrigins, cfg.AppUrl)
	}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	// CORS config
	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Failed to start server:", err)
	}
}
