package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dhoini/Client-microservice/config"
	"github.com/Dhoini/Client-microservice/internal/api/rest"
	"github.com/Dhoini/Client-microservice/internal/kafka"
	"github.com/Dhoini/Client-microservice/internal/kafka/producer"
	"github.com/Dhoini/Client-microservice/internal/metrics"
	"github.com/Dhoini/Client-microservice/internal/repository/postgres"
	"github.com/Dhoini/Client-microservice/internal/service"
	"github.com/Dhoini/Client-microservice/pkg/logger"
	"github.com/IBM/sarama"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	log := logger.New(logger.INFO)

	// Загрузка конфигурации (.env, config.yaml, переменные окружения)
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}

	log = logger.New(logger.ParseLevel(cfg.Logging.Level))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация Prometheus
	promRegistry := prometheus.NewRegistry()
	clientMetrics := metrics.NewClientMetrics(promRegistry, log)
	systemMetrics := metrics.NewSystemMetrics(promRegistry, log)

	systemMetrics.StartRecording(15 * time.Second)
	defer systemMetrics.Stop()

	// Подключение к базе данных
	dbPool, err := postgres.NewConnection(ctx, cfg.Database.GetDSN(), postgres.DefaultPoolOptions(), log)
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// Схема и стартовые данные
	if err := postgres.Migrate(ctx, dbPool, log); err != nil {
		log.Fatal("Failed to migrate database: %v", err)
	}

	repo := postgres.NewPostgresClientRepository(dbPool, log)
	clientService := service.NewClientService(repo, log)

	// Kafka продюсер событий, включается только при наличии брокеров
	var events producer.ClientProducer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaConfig := kafka.NewConfig(cfg.Kafka.Brokers)
		saramaConfig := kafka.NewSaramaConfig(kafkaConfig, log)

		syncProducer, err := sarama.NewSyncProducer(kafkaConfig.Brokers, saramaConfig)
		if err != nil {
			log.Fatal("Failed to create Kafka producer: %v", err)
		}

		events = producer.NewKafkaClientProducer(syncProducer, log)
		defer events.Close()
	} else {
		log.Info("Kafka brokers not configured, event publishing disabled")
	}

	// Установка режима Gin
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Настройка маршрутизатора
	router := rest.SetupRouter(clientService, events, clientMetrics, promRegistry, log)

	// Создание и запуск HTTP сервера
	server := rest.NewServer(router, cfg, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
