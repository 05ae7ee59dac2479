package rest

import (
	"github.com/Dhoini/Client-microservice/internal/api/rest/handlers"
	"github.com/Dhoini/Client-microservice/internal/api/rest/middleware"
	"github.com/Dhoini/Client-microservice/internal/domain"
	"github.com/Dhoini/Client-microservice/internal/kafka/producer"
	"github.com/Dhoini/Client-microservice/internal/metrics"
	"github.com/Dhoini/Client-microservice/internal/service"
	"github.com/Dhoini/Client-microservice/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter настраивает маршрутизатор Gin с маршрутами и middleware
func SetupRouter(
	svc service.ClientService,
	events producer.ClientProducer,
	clientMetrics metrics.ClientMetrics,
	registry *prometheus.Registry,
	log *logger.Logger,
) *gin.Engine {
	r := gin.New()

	// Подключение middleware
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(gin.Recovery())

	// Политика CORS открытая, фронтенд обслуживается с другого origin
	r.Use(cors.Default())

	// Кастомные правила валидации для DTO (cuit, beforetoday)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := domain.RegisterValidations(v); err != nil {
			log.Fatal("Failed to register validations: %v", err)
		}
	}

	// Endpoint для проверки работоспособности сервиса
	r.GET("/health", handlers.HealthCheck)

	// Prometheus метрики
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	clientHandler := handlers.NewClientHandler(svc, events, clientMetrics, log)

	v1 := r.Group("/api/v1")
	{
		clients := v1.Group("/clients")
		{
			clients.GET("", clientHandler.GetClients)
			clients.GET("/search", clientHandler.SearchClients)
			clients.GET("/:id", clientHandler.GetClient)
			clients.POST("", clientHandler.CreateClient)
			clients.PUT("/:id", clientHandler.UpdateClient)
			clients.DELETE("/:id", clientHandler.DeleteClient)
		}
	}

	return r
}
