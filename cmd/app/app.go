package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/ticktopia-api/internal/api"
	"github.com/vietanh2810/ticktopia-api/internal/clock"
	"github.com/vietanh2810/ticktopia-api/internal/config"
	"github.com/vietanh2810/ticktopia-api/internal/db"
	"github.com/vietanh2810/ticktopia-api/internal/logger"
	"github.com/vietanh2810/ticktopia-api/internal/notify"
	"github.com/vietanh2810/ticktopia-api/internal/repository"
	"github.com/vietanh2810/ticktopia-api/internal/repository/dao"
	"github.com/vietanh2810/ticktopia-api/internal/service"
	"github.com/vietanh2810/ticktopia-api/internal/session"
)

const configPath = "./cmd/app/config.yml"

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	if conf.Log != nil && conf.Log.Level != "" {
		if err = logger.SetLevel(conf.Log.Level); err != nil {
			return fmt.Errorf("failed to set log level -> %w", err)
		}
	}
	watchLogLevel()

	gormDB, err := openDB(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}
	if err = dao.InitTables(gormDB); err != nil {
		return fmt.Errorf("failed to migrate tables -> %w", err)
	}

	clk := clock.NewSystem()
	rdb := session.NewRedisClient(conf.Redis)

	var notifier service.Notifier = notify.Nop{}
	if publisher, err := notify.Dial(conf.RabbitMQ); err != nil {
		zap.L().Warn("ticket notifications disabled", zap.Error(err))
	} else {
		defer publisher.Close()
		notifier = publisher
	}

	if conf.Seed != nil && conf.Seed.Enabled {
		if err = seed(gormDB, conf.Seed.Password, clk); err != nil {
			return fmt.Errorf("failed to seed database -> %w", err)
		}
	}

	s := api.NewServer(conf, gormDB, rdb, notifier, clk)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

// openDB prefers DATABASE_URL, then the configured driver.
func openDB(conf *config.AppConfig) (*gorm.DB, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return db.OpenPostgresWithURL(dbURL)
	}

	if conf.Database != nil && conf.Database.Driver == config.DriverMySQL {
		return db.OpenMySQL(conf.MySQL)
	}

	return db.OpenPostgres(conf.Postgres)
}

func watchLogLevel() {
	err := config.Watch(configPath, func(c *config.AppConfig) {
		if c.Log == nil || c.Log.Level == "" {
			return
		}
		if err := logger.SetLevel(c.Log.Level); err != nil {
			zap.L().Warn("ignoring log level from reloaded config", zap.Error(err))
			return
		}
		zap.L().Info("log level reloaded", zap.String("level", c.Log.Level))
	}, func(err error) {
		zap.L().Warn("config reload failed", zap.Error(err))
	})
	if err != nil {
		zap.L().Warn("config hot reload disabled", zap.Error(err))
	}
}

func seed(gormDB *gorm.DB, password string, clk clock.Clock) error {
	seeder := service.NewSeeder(service.SeedStore{
		Wipe: func(ctx context.Context) error {
			return dao.DeleteAll(ctx, gormDB)
		},
		Users:         repository.NewUserRepository(dao.NewUserDAO(gormDB)),
		Events:        repository.NewEventRepository(dao.NewEventDAO(gormDB)),
		Presentations: repository.NewPresentationRepository(dao.NewPresentationDAO(gormDB)),
		Tickets:       repository.NewTicketRepository(dao.NewTicketDAO(gormDB)),
	}, password, clk)

	return seeder.Run(context.Background())
}
