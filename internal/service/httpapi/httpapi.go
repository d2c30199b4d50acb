// Package httpapi — HTTP/JSON интерфейс бэк-офиса: каталог, клиенты и заказы.
package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/montazhzhilstroy/backoffice/internal/domain"
	"github.com/montazhzhilstroy/backoffice/internal/service/orders"
)

// Server держит зависимости обработчиков и регистрирует маршруты.
type Server struct {
	products domain.ProductRepository
	clients  domain.ClientRepository
	ledger   domain.StockLedger
	engine   *orders.Engine
	logger   *log.Entry
}

// NewServer создаёт HTTP-слой поверх хранилищ и движка заказов.
func NewServer(
	products domain.ProductRepository,
	clients domain.ClientRepository,
	ledger domain.StockLedger,
	engine *orders.Engine,
	logger *log.Entry,
) *Server {
	if logger == nil {
		logger = log.New().WithField("component", "httpapi")
	}
	return &Server{
		products: products,
		clients:  clients,
		ledger:   ledger,
		engine:   engine,
		logger:   logger,
	}
}

// Router собирает gin-роутер со сквозными middleware и маршрутами API.
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(s.logger))

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	api := router.Group("/api/v1")
	{
		products := api.Group("/products")
		products.GET("", s.listProducts)
		products.POST("", s.createProduct)
		products.GET("/:id", s.getProduct)
		products.PATCH("/:id", s.updateProduct)
		products.DELETE("/:id", s.deleteProduct)
		products.POST("/:id/stock", s.adjustStock)

		clients := api.Group("/clients")
		clients.GET("", s.listClients)
		clients.POST("", s.createClient)
		clients.GET("/:id", s.getClient)
		clients.PATCH("/:id", s.updateClient)
		clients.DELETE("/:id", s.deleteClient)

		ordersGroup := api.Group("/orders")
		ordersGroup.GET("", s.listOrders)
		ordersGroup.POST("", s.createOrder)
		ordersGroup.GET("/:id", s.getOrder)
		ordersGroup.PUT("/:id/status", s.setOrderStatus)
		ordersGroup.DELETE("/:id", s.deleteOrder)
	}

	return router
}
