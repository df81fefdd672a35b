package db

import (
	"fmt"
	"net"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vietanh2810/ticktopia-api/internal/config"
)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func OpenPostgres(conf *config.PostgresConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		conf.Host, conf.Port, conf.User, conf.Password, conf.DB, conf.SSLMode)

	return OpenPostgresWithURL(dsn)
}

// OpenPostgresWithURL accepts both a postgres:// URL and a key=value DSN.
func OpenPostgresWithURL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	return db, nil
}

func OpenMySQL(conf *config.MySQLConfig) (*gorm.DB, error) {
	cfg := mysqldriver.NewConfig()
	cfg.User = conf.User
	cfg.Passwd = conf.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(conf.Host, conf.Port)
	cfg.DBName = conf.DB
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := gorm.Open(mysql.Open(cfg.FormatDSN()), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	return db, nil
}
