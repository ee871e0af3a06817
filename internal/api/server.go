package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/qeelushop-ui/Qeelu-sub001/internal/abandoned"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/cache"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/database"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/service"
)

// Server представляет HTTP-сервер.
type Server struct {
	port    string
	router  *chi.Mux
	service *service.OrderService
	tracker *abandoned.Tracker
	storage database.Storage
	cache   cache.Cache
}

// NewServer создает и настраивает новый экземпляр сервера.
func NewServer(port string, svc *service.OrderService, tracker *abandoned.Tracker, storage database.Storage, cache cache.Cache) *Server {
	server := &Server{
		port:    port,
		service: svc,
		tracker: tracker,
		storage: storage,
		cache:   cache,
	}
	server.router = server.setupRouter()
	return server
}

// Run запускает HTTP-сервер.
func (s *Server) Run() error {
	address := fmt.Sprintf(":%s", s.port)
	fmt.Printf("🚀 HTTP-сервер запущен на http://localhost%s\n", address)
	// Оборачиваем роутер в otelhttp для серверных спанов.
	return http.ListenAndServe(address, otelhttp.NewHandler(s.router, "http-server"))
}

// setupRouter настраивает маршрутизацию.
func (s *Server) setupRouter() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Обработчик API
	orderHandler := NewOrderHandler(s.service, s.tracker, s.storage, s.cache)
	router.Post("/api/order", orderHandler.SubmitOrder)
	router.Get("/api/order/{orderID}", orderHandler.GetOrder)
	router.Post("/api/abandoned", orderHandler.CaptureAbandoned)
	router.Get("/api/abandoned", orderHandler.GetAbandoned)
	router.Delete("/api/abandoned", orderHandler.DeleteAbandoned)
	router.Get("/api/products", orderHandler.ListProducts)

	// Метрики Prometheus
	router.Handle("/metrics", promhttp.Handler())

	return router
}
