package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/attendance"
	"github.com/alaminmiah4274/iron-temple/internal/auth"
	"github.com/alaminmiah4274/iron-temple/internal/booking"
	"github.com/alaminmiah4274/iron-temple/internal/clock"
	"github.com/alaminmiah4274/iron-temple/internal/config"
	"github.com/alaminmiah4274/iron-temple/internal/email"
	"github.com/alaminmiah4274/iron-temple/internal/events"
	"github.com/alaminmiah4274/iron-temple/internal/feedback"
	"github.com/alaminmiah4274/iron-temple/internal/fitnessclass"
	"github.com/alaminmiah4274/iron-temple/internal/gateway"
	"github.com/alaminmiah4274/iron-temple/internal/logger"
	"github.com/alaminmiah4274/iron-temple/internal/membership"
	"github.com/alaminmiah4274/iron-temple/internal/payment"
	"github.com/alaminmiah4274/iron-temple/internal/report"
	"github.com/alaminmiah4274/iron-temple/internal/subscription"
	"github.com/alaminmiah4274/iron-temple/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

// handlers is every resource handler the router mounts.
type handlers struct {
	users         *user.Handler
	classes       *fitnessclass.Handler
	memberships   *membership.Handler
	bookings      *booking.Handler
	attendance    *attendance.Handler
	subscriptions *subscription.Handler
	payments      *payment.Handler
	feedback      *feedback.Handler
	reports       *report.Handler
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service, emitter events.Emitter) *Server {
	now := clock.System()

	userRepo := user.NewRepository(db)
	membershipRepo := membership.NewRepository(db)
	subscriptionRepo := subscription.NewRepository(db)
	paymentRepo := payment.NewRepository(db)

	paymentService := payment.NewService(
		paymentRepo,
		subscriptionRepo,
		membershipRepo,
		userRepo,
		gateway.New(cfg),
		emailService,
		emitter,
		payment.SettingsFrom(cfg),
	)

	h := handlers{
		users:         user.NewHandler(user.NewService(userRepo, cfg.JWTSecret)),
		classes:       fitnessclass.NewHandler(fitnessclass.NewService(fitnessclass.NewRepository(db), userRepo)),
		memberships:   membership.NewHandler(membership.NewService(membershipRepo)),
		bookings:      booking.NewHandler(booking.NewService(booking.NewRepository(db), userRepo, emailService, emitter, now)),
		attendance:    attendance.NewHandler(attendance.NewService(attendance.NewRepository(db), emitter)),
		subscriptions: subscription.NewHandler(subscription.NewService(subscriptionRepo, userRepo, emailService, emitter, now)),
		payments:      payment.NewHandler(paymentService),
		feedback:      feedback.NewHandler(feedback.NewService(feedback.NewRepository(db), emitter)),
		reports:       report.NewHandler(report.NewService(report.NewRepository(db), paymentRepo)),
	}

	router := newRouter(cfg, h, db)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func newRouter(cfg *config.Config, h handlers, db Pinger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(),
		RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	router.GET("/health", Health(db))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	registerRoutes(router, cfg.JWTSecret, access.DefaultPolicy, h)
	return router
}

func registerRoutes(r *gin.Engine, secret string, p access.Policy, h handlers) {
	can := func(res access.Resource, act access.Action) gin.HandlerFunc {
		return access.Require(p, res, act)
	}

	public := r.Group("/auth")
	{
		public.POST("/register", h.users.Register)
		public.POST("/login", h.users.Login)
		public.POST("/refresh", h.users.RefreshToken)
	}

	r.GET("/me", auth.AuthMiddleware(secret), h.users.GetMe)

	// The gateway posts back here without a bearer token; the callback is signed instead.
	r.POST("/payment/success", h.payments.Success)
	r.POST("/payment/fail", h.payments.Abandon)
	r.POST("/payment/cancel", h.payments.Abandon)

	api := r.Group("/")
	api.Use(auth.OptionalAuthMiddleware(secret))

	classes := api.Group("/fitness-classes")
	{
		classes.GET("", can(access.Classes, access.Read), h.classes.List)
		classes.GET("/:id", can(access.Classes, access.Read), h.classes.Get)
		classes.POST("", can(access.Classes, access.Create), h.classes.Create)
		classes.PATCH("/:id", can(access.Classes, access.Update), h.classes.Update)
		classes.DELETE("/:id", can(access.Classes, access.Delete), h.classes.Delete)
	}

	memberships := api.Group("/memberships")
	{
		memberships.GET("", can(access.Memberships, access.Read), h.memberships.List)
		memberships.GET("/:id", can(access.Memberships, access.Read), h.memberships.Get)
		memberships.POST("", can(access.Memberships, access.Create), h.memberships.Create)
		memberships.PATCH("/:id", can(access.Memberships, access.Update), h.memberships.Update)
		memberships.DELETE("/:id", can(access.Memberships, access.Delete), h.memberships.Delete)
		memberships.GET("/:id/has_subscribed", can(access.Subscriptions, access.Create), h.payments.HasSubscribed)
	}

	bookings := api.Group("/bookings")
	{
		bookings.POST("", can(access.Bookings, access.Create), h.bookings.Create)
		bookings.GET("", can(access.Bookings, access.Read), h.bookings.List)
		bookings.GET("/:id", can(access.Bookings, access.Read), h.bookings.Get)
		bookings.PATCH("/:id/update_status", can(access.Bookings, access.Update), h.bookings.UpdateStatus)
		bookings.DELETE("/:id", can(access.Bookings, access.Delete), h.bookings.Delete)
	}

	att := api.Group("/attendance")
	{
		att.POST("", can(access.Attendance, access.Create), h.attendance.Create)
		att.GET("", can(access.Attendance, access.Read), h.attendance.List)
		att.GET("/:id", can(access.Attendance, access.Read), h.attendance.Get)
		att.PATCH("/:id", can(access.Attendance, access.Update), h.attendance.Update)
	}

	subs := api.Group("/subscriptions")
	{
		subs.POST("", can(access.Subscriptions, access.Create), h.subscriptions.Subscribe)
		subs.GET("", can(access.Subscriptions, access.Read), h.subscriptions.List)
		subs.GET("/:id", can(access.Subscriptions, access.Read), h.subscriptions.Get)
		subs.PATCH("/:id/update_status", can(access.Subscriptions, access.Update), h.subscriptions.UpdateStatus)
		subs.DELETE("/:id", can(access.Subscriptions, access.Delete), h.subscriptions.Delete)
	}

	api.POST("/payment/initiate", can(access.Payments, access.Create), h.payments.Initiate)

	payments := api.Group("/payments")
	{
		payments.POST("", can(access.Payments, access.Create), h.payments.Create)
		payments.GET("", can(access.Payments, access.Read), h.payments.List)
		payments.GET("/:id", can(access.Payments, access.Read), h.payments.Get)
		payments.PATCH("/:id", can(access.Payments, access.Update), h.payments.UpdateStatus)
		payments.DELETE("/:id", can(access.Payments, access.Delete), h.payments.Delete)
	}

	fb := api.Group("/feedback")
	{
		fb.POST("", can(access.Feedback, access.Create), h.feedback.Create)
		fb.GET("", can(access.Feedback, access.Read), h.feedback.List)
		fb.GET("/:id", can(access.Feedback, access.Read), h.feedback.Get)
		fb.PATCH("/:id/update_review", can(access.Feedback, access.Update), h.feedback.UpdateReview)
		fb.DELETE("/:id", can(access.Feedback, access.Delete), h.feedback.Delete)
	}

	reports := api.Group("/reports", can(access.Reports, access.Read))
	{
		reports.GET("/membership", h.reports.Memberships)
		reports.GET("/attendance", h.reports.Attendance)
		reports.GET("/feedback", h.reports.Feedback)
		reports.GET("/payments", h.reports.Payments)
	}
}

// Start serves until Shutdown is called.
func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("HTTP server listening", "port", port)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
