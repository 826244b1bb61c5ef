package server

import (
	"net/http"

	"webpay-checkout/internal/apperrors"
	"webpay-checkout/internal/handler"
	"webpay-checkout/internal/logging"
	"webpay-checkout/internal/metrics"
	authmw "webpay-checkout/internal/middleware"
	"webpay-checkout/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	paymentHandler *handler.PaymentHandler
	orderHandler   *handler.OrderHandler
	adminJWTSecret string
}

func NewServer(txService service.TransactionService, adminJWTSecret string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler

	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(metrics.Middleware())

	s := &Server{
		echo:           e,
		paymentHandler: handler.NewPaymentHandler(txService),
		orderHandler:   handler.NewOrderHandler(txService),
		adminJWTSecret: adminJWTSecret,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.POST("/checkout", s.paymentHandler.CreateCheckout)

	// -------- gateway callbacks --------
	payment := api.Group("/payment")
	payment.GET("/commit", s.paymentHandler.Commit)
	payment.POST("/commit", s.paymentHandler.Commit)
	payment.GET("/status/:token", s.paymentHandler.Status)

	api.GET("/orders/:buyOrder", s.orderHandler.GetByCode)

	admin := api.Group("/admin", authmw.AdminAuth(s.adminJWTSecret))
	admin.PUT("/orders/:buyOrder/status", s.orderHandler.UpdateStatus)
}

// errorHandler translates the error taxonomy at the boundary; callers never
// see a raw error.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code = http.StatusInternalServerError
		msg  = "internal error"
	)

	switch {
	case apperrors.IsValidation(err):
		code, msg = http.StatusBadRequest, err.Error()
	case apperrors.IsNotFound(err):
		code, msg = http.StatusNotFound, err.Error()
	case apperrors.IsGateway(err):
		code, msg = http.StatusBadGateway, "payment gateway failure"
	case apperrors.IsPersistence(err):
		code = http.StatusInternalServerError
	default:
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}
	}

	if code >= http.StatusInternalServerError {
		logging.New("http").Error("request failed", "error", err, "path", c.Request().URL.Path)
	}

	_ = c.JSON(code, map[string]string{"error": msg})
}

func requestLogger() echo.MiddlewareFunc {
	log := logging.New("http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				"method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	})
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
