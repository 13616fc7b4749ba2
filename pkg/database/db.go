package database

import (
	"context"
	"fmt"
	"net"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashiranjanraj/products/config"
)

const defaultMySQLPort = "3306"

// Config names the dialect and the DSN handed to it.
type Config struct {
	Driver string
	DSN    string
}

// FromConfig reads the connection settings once. DATABASE_DSN wins; without
// it the MySQL DSN is assembled from MYSQL_HOST, MYSQL_USER, MYSQL_PASSWORD
// and MYSQL_DATABASE exactly as given.
func FromConfig() Config {
	cfg := Config{Driver: config.DatabaseDriver(), DSN: config.DatabaseDSN()}
	if cfg.DSN == "" && cfg.Driver == "mysql" {
		cfg.DSN = BuildDSN(config.MySQLHost(), config.MySQLUser(), config.MySQLPassword(), config.MySQLDatabase())
	}
	return cfg
}

// BuildDSN formats a go-sql-driver/mysql DSN. A host without a port gets 3306.
// clientFoundRows makes UPDATE report matched rows, so rewriting a row with
// its current values still counts as one affected row.
func BuildDSN(host, user, password, dbname string) string {
	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, defaultMySQLPort)
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true", user, password, addr, dbname)
}

// Dial returns the Opener used in production. Every call opens one fresh
// connection handle, restricted to a single underlying connection, and
// verifies it with a ping. A handle whose ping fails is closed before the
// error is returned so a retry never leaks the socket.
func Dial(cfg Config) Opener {
	return func(ctx context.Context) (*gorm.DB, error) {
		dialector, err := buildDialector(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("database: build dialector: %w", err)
		}
		return connect(ctx, dialector)
	}
}

func connect(ctx context.Context, dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent), // use pkg/logger, not GORM's own
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}

	// One shared connection for the process lifetime; database/sql
	// queues concurrent statements behind it.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return db, nil
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: mysql, postgres, sqlite, sqlserver)", driver)
	}
}
