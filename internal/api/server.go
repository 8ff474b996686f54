package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	v1 "github.com/festpass/festpass-api/internal/api/handler/v1"
	"github.com/festpass/festpass-api/internal/api/middleware"
	"github.com/festpass/festpass-api/internal/config"
	"github.com/festpass/festpass-api/internal/events"
	"github.com/festpass/festpass-api/internal/gateway"
	"github.com/festpass/festpass-api/internal/repository"
	"github.com/festpass/festpass-api/internal/repository/dao"
	"github.com/festpass/festpass-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB, mail *events.MailDispatcher) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	systemHandler := v1.NewSystemHandler(conf.API)
	authHandler := s.initAuthHandler(db, mail)
	itemsHandler := s.initItemsHandler(db)
	ordersHandler := s.initOrdersHandler(db)
	paymentsHandler := s.initPaymentsHandler(db, mail)
	s.MountHandlers(systemHandler, authHandler, itemsHandler, ordersHandler, paymentsHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB, mail *events.MailDispatcher) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo, mail)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initItemsHandler(db *gorm.DB) *v1.ItemsHandler {
	itemDAO := dao.NewItemDAO(db)
	repo := repository.NewItemRepository(itemDAO)
	svc := service.NewCatalogService(repo)
	handler := v1.NewItemsHandler(svc, s.Config.API.UploadDir)

	return handler
}

func (s *Server) initOrdersHandler(db *gorm.DB) *v1.OrdersHandler {
	orderDAO := dao.NewOrderDAO(db)
	repo := repository.NewOrderRepository(orderDAO)
	svc := service.NewOrderService(repo)
	handler := v1.NewOrdersHandler(svc)

	return handler
}

func (s *Server) initPaymentsHandler(db *gorm.DB, mail *events.MailDispatcher) *v1.PaymentsHandler {
	outboxRepo := repository.NewOutboxRepository(dao.NewOutboxDAO(db))
	orderRepo := repository.NewOrderRepository(dao.NewOrderDAO(db))
	gw := gateway.NewRazorpayGateway(s.Config.Razorpay)
	svc := service.NewPaymentService(gw, outboxRepo, orderRepo, mail)
	phonePe := gateway.NewPhonePeGateway(s.Config.PhonePe)
	handler := v1.NewPaymentsHandler(s.Config, svc, phonePe)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(systemHandler *v1.SystemHandler, authHandler *v1.AuthHandler, itemsHandler *v1.ItemsHandler, ordersHandler *v1.OrdersHandler, paymentsHandler *v1.PaymentsHandler) {
	const basePath = "/api"

	open := s.Router.Group(basePath)
	{
		open.GET("/healthcheck", systemHandler.HandleHealthcheck)
		open.GET("/config", systemHandler.HandleConfig)

		open.POST("/signup", authHandler.HandleSignup)
		open.POST("/login", authHandler.HandleLogin)
		open.POST("/forgot-password", authHandler.HandleForgotPassword)
		open.POST("/reset-password", authHandler.HandleResetPassword)

		open.GET("/items", itemsHandler.HandleListItems)

		open.POST("/generate-id", ordersHandler.HandleGenerateID)
		open.POST("/check-id", ordersHandler.HandleCheckID)
		open.POST("/mark-used", ordersHandler.HandleMarkUsed)
		open.POST("/my-orders", ordersHandler.HandleMyOrders)
		open.GET("/ticket-qr/:uniqueId", ordersHandler.HandleTicketQR)

		open.POST("/create-razorpay-order", paymentsHandler.HandleCreateGatewayOrder)
		open.POST("/verify-payment", paymentsHandler.HandleVerifyPayment)
		open.POST("/pay", paymentsHandler.HandlePhonePePay)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/me", authHandler.HandleMe)
	}

	admin := s.Router.Group(basePath, middleware.RequireAdminPIN(s.Config.API.AdminPIN))
	{
		admin.GET("/orders", ordersHandler.HandleAdminOrders)
		admin.POST("/items", itemsHandler.HandleAddItem)
		admin.DELETE("/items/:id", itemsHandler.HandleDeleteItem)
	}

	s.mountStatic()
}

// mountStatic serves the frontend from ./public and uploaded item images from
// the configured upload directory, mirroring how the site is deployed.
func (s *Server) mountStatic() {
	s.Router.Static("/uploads", s.Config.API.UploadDir)

	s.Router.NoRoute(func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodGet || strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		p := filepath.Join("./public", filepath.Clean("/"+ctx.Request.URL.Path))
		if ctx.Request.URL.Path == "/" {
			p = filepath.Join("./public", "index.html")
		}

		ctx.File(p)
	})
}
