package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dhoini/Checkout-gateway/config"
	"github.com/Dhoini/Checkout-gateway/internal/api/rest"
	"github.com/Dhoini/Checkout-gateway/internal/integration/stripe"
	"github.com/Dhoini/Checkout-gateway/internal/kafka"
	kafkaproducer "github.com/Dhoini/Checkout-gateway/internal/kafka/producer"
	"github.com/Dhoini/Checkout-gateway/internal/metrics"
	"github.com/Dhoini/Checkout-gateway/internal/render"
	"github.com/Dhoini/Checkout-gateway/internal/repository"
	"github.com/Dhoini/Checkout-gateway/internal/repository/postgres"
	"github.com/Dhoini/Checkout-gateway/internal/service"
	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/IBM/sarama"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

var log *logger.Logger

func init() {
	// Загружаем переменные окружения
	if err := godotenv.Load(); err != nil {
		// Пропускаем ошибку, если .env файл не найден
	}

	// Инициализация логгера
	logLevel := logger.INFO
	if os.Getenv("DEBUG") == "true" {
		logLevel = logger.DEBUG
	}
	log = logger.New(logLevel)
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		// Сервис поднимается и с невалидным шлюзом: маршруты оформления
		// будут отвечать 503, health и metrics продолжат работать.
		log.Warn("Gateway is not available: %v", err)
	}

	// Создаем контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация Prometheus
	promRegistry := prometheus.NewRegistry()
	paymentMetrics := metrics.NewPaymentMetrics(promRegistry, log)
	systemMetrics := metrics.NewSystemMetrics(promRegistry, log)

	// Запускаем сбор системных метрик
	systemMetrics.StartRecording(15 * time.Second)
	defer systemMetrics.Stop()

	// Подключение к базе данных
	var (
		orderRepo repository.OrderRepository
		cardRepo  repository.CardRepository
	)
	dbPool, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		log.Warn("Failed to connect to database, using in-memory repositories: %v", err)
		orderRepo = repository.NewInMemoryOrderRepository(log)
		cardRepo = repository.NewInMemoryCardRepository(log)
	} else {
		defer dbPool.Close()
		orderRepo = postgres.NewPostgresOrderRepository(dbPool, log)
		cardRepo = postgres.NewPostgresCardRepository(dbPool, log)
	}

	// Хранилище сессий покупателей
	var sessionStore repository.SessionStore
	redisStore, err := repository.NewRedisSessionStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	if err != nil {
		log.Warn("Failed to connect to Redis, using in-memory session store: %v", err)
		sessionStore = repository.NewInMemorySessionStore(log)
	} else {
		sessionStore = redisStore
	}

	// Инициализация Kafka продюсера
	var paymentProducer kafkaproducer.PaymentProducer
	kafkaConfig := kafka.NewConfig(cfg.Kafka.Brokers)
	saramaConfig := kafka.NewSaramaConfig(kafkaConfig)

	kafkaProducer, err := sarama.NewSyncProducer(kafkaConfig.Brokers, saramaConfig)
	if err != nil {
		log.Warn("Failed to create Kafka producer, charge events will not be published: %v", err)
		paymentProducer = kafkaproducer.NoopProducer{}
	} else {
		defer kafkaProducer.Close()
		paymentProducer = kafkaproducer.NewKafkaPaymentProducer(kafkaProducer, log)
	}

	// Клиент платежного процессора
	processor := stripe.NewClient(stripe.Config{SecretKey: cfg.Gateway.SecretKey()}, log)

	// Рендерер платежной формы
	formRenderer, err := render.NewFormRenderer()
	if err != nil {
		log.Fatal("Failed to build form renderer: %v", err)
	}

	// Сервисы оформления заказа
	checkoutService := service.NewCheckoutService(cfg, orderRepo, cardRepo, sessionStore, processor, paymentProducer, paymentMetrics, log)
	captureService := service.NewCaptureService(orderRepo, processor, paymentProducer, paymentMetrics, log)

	// Установка режима Gin
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Настройка маршрутизатора
	router := rest.SetupRouter(rest.Deps{
		Checkout: checkoutService,
		Capture:  captureService,
		Cards:    cardRepo,
		Session:  sessionStore,
		Renderer: formRenderer,
		Metrics:  paymentMetrics,
		Registry: promRegistry,
	}, cfg, log)

	// Создание и запуск HTTP сервера
	server := rest.NewServer(router, cfg, log)

	// Запуск сервера в горутине
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Останавливаем сервер
	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
