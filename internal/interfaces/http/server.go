// Package http is the transport adapter: it translates HTTP requests into
// application service calls and the domain error taxonomy into status
// codes. No workflow rules live here.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alirezakafim/pardis/internal/application/service"
	"github.com/alirezakafim/pardis/internal/auth"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Services bundles the application services the transport exposes.
type Services struct {
	Goods         *service.GoodsService
	Proposals     *service.ProposalService
	Payments      *service.PaymentService
	Users         *service.UserService
	Notifications *service.NotificationService
	CostCenters   *service.CostCenterService
	Reports       *service.ReportService
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	tokens     *auth.TokenManager
	handlers   *Handlers
	logger     *zap.Logger
}

// NewServer creates a new HTTP server over the given services
func NewServer(config ServerConfig, services Services, tokens *auth.TokenManager, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		tokens:   tokens,
		handlers: NewHandlers(services, logger),
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()
	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := s.handlers

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")

	// Login and registration are the only open endpoints.
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)

	secured := api.Group("", auth.Middleware(s.tokens))
	{
		secured.GET("/auth/me", h.Me)

		// Users can fetch their own record; everything else on the user
		// and cost-center resources is admin-only and gated at the route.
		adminOnly := auth.RequireRole(workflow.RoleAdmin)

		users := secured.Group("/users")
		{
			users.GET("", adminOnly, h.ListUsers)
			users.GET("/:id", h.GetUser)
			users.PUT("/:id", adminOnly, h.UpdateUser)
			users.DELETE("/:id", adminOnly, h.DeleteUser)
		}

		centers := secured.Group("/cost-centers")
		{
			centers.GET("", h.ListCostCenters)
			centers.POST("", adminOnly, h.CreateCostCenter)
			centers.PUT("/:id", adminOnly, h.UpdateCostCenter)
			centers.DELETE("/:id", adminOnly, h.DeleteCostCenter)
		}

		goods := secured.Group("/goods-requests")
		{
			goods.GET("", h.ListGoodsRequests)
			goods.POST("", h.CreateGoodsRequest)
			goods.GET("/:id", h.GetGoodsRequest)
			goods.PUT("/:id", h.UpdateGoodsRequest)
			goods.DELETE("/:id", h.DeleteGoodsRequest)
			goods.GET("/:id/history", h.GoodsRequestHistory)
			goods.POST("/:id/submit", h.SubmitGoodsRequest)
			goods.POST("/:id/inquiries", h.AddInquiries)
			goods.POST("/:id/inquiry-decision", h.InquiryDecision)
			goods.POST("/:id/receipts", h.AddReceipt)
			goods.POST("/:id/receipts/confirm-procurement", h.ConfirmReceiptProcurement)
			goods.POST("/:id/receipts/confirm-requester", h.ConfirmReceiptRequester)
			goods.POST("/:id/invoice", h.UploadInvoice)
			goods.POST("/:id/approve-financial", h.ApproveFinancial)
			goods.POST("/:id/reject", h.RejectGoodsRequest)
		}

		proposals := secured.Group("/project-proposals")
		{
			proposals.GET("", h.ListProposals)
			proposals.POST("", h.CreateProposal)
			proposals.GET("/:id", h.GetProposal)
			proposals.PUT("/:id", h.UpdateProposal)
			proposals.DELETE("/:id", h.DeleteProposal)
			proposals.GET("/:id/history", h.ProposalHistory)
			proposals.POST("/:id/submit", h.SubmitProposal)
			proposals.POST("/:id/coo-review", h.COOReview)
			proposals.POST("/:id/assign-manager", h.AssignManager)
			proposals.POST("/:id/register-project", h.RegisterProject)
		}

		payments := secured.Group("/payment-requests")
		{
			payments.GET("", h.ListPaymentRequests)
			payments.POST("", h.CreatePaymentRequest)
			payments.GET("/:id", h.GetPaymentRequest)
			payments.PUT("/:id", h.UpdatePaymentRequest)
			payments.DELETE("/:id", h.DeletePaymentRequest)
			payments.GET("/:id/history", h.PaymentRequestHistory)
			payments.POST("/:id/submit", h.SubmitPaymentRequest)
			payments.POST("/:id/payment-types", h.SetPaymentTypes)
			payments.POST("/:id/approve", h.ApprovePaymentRequest)
			payments.POST("/:id/reject", h.RejectPaymentRequest)
			payments.POST("/:id/process-payment", h.ProcessPayment)
		}

		notifications := secured.Group("/notifications")
		{
			notifications.GET("", h.ListNotifications)
			notifications.POST("/:id/read", h.MarkNotificationRead)
			notifications.POST("/read-all", h.MarkAllNotificationsRead)
		}

		reports := secured.Group("/reports")
		{
			reports.GET("/goods-requests/excel", h.GoodsRequestsExcel)
			reports.GET("/goods-requests/:id/pdf", h.GoodsRequestPDF)
		}
	}
}

// Start starts the HTTP server and blocks until the context is cancelled
// or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
