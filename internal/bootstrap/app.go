package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/config"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/model"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/pkg/docconvert"
	mysqlClient "github.com/AnirbanGoswamiban/SeerAI-backend/internal/platform/mysql"
	redisClient "github.com/AnirbanGoswamiban/SeerAI-backend/internal/platform/redis"
	rabbitmqClient "github.com/AnirbanGoswamiban/SeerAI-backend/internal/platform/rabbitmq"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/repository"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/storage"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/worker"
)

type App struct {
	Config        *config.Config
	MySQL         *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	Files         *storage.Local
	ExtractWorker *worker.ExtractWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.Session{}, &model.Space{}, &model.Document{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	files, err := storage.NewLocal(cfg.Storage.UploadRoot, cfg.Storage.Namespace)
	if err != nil {
		return nil, err
	}

	docRepo := repository.NewDocumentRepository(mysqlDB)
	extractWorker := worker.NewExtractWorker(
		mqConn,
		docRepo,
		files,
		[]docconvert.Converter{docconvert.PDFConverter{}},
		cfg.RabbitMQ.ExtractQueue,
	)
	if err := extractWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start extract worker failed: %w", err)
	}

	return &App{
		Config:        cfg,
		MySQL:         mysqlDB,
		Redis:         redisCli,
		MQConn:        mqConn,
		Files:         files,
		ExtractWorker: extractWorker,
		StartedAt:     time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ExtractWorker != nil {
		a.ExtractWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
