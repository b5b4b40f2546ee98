package db

import (
	"fmt"
	"log"
	"os"
	"time"

	mysqlconf "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"photoshare/config"
)

// Open connects to the configured store: MySQL first, then Postgres, then SQLite.
// The caller owns the handle and must Close it.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
		Logger:                 newLogger(cfg.DebugMode),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialector.Name(), err)
	}
	if dialector.Name() == "sqlite" {
		// SQLite allows a single writer; serialize through one connection
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// OpenSQLite opens a pure-Go SQLite database at path with foreign keys enforced.
func OpenSQLite(path string, debug bool) (*gorm.DB, error) {
	return Open(&config.Config{SQLiteFile: path, DebugMode: debug})
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch {
	case cfg.MySQLDSN != "":
		dsn, err := normalizeMySQLDSN(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case cfg.PostgresDSN != "":
		return postgres.Open(cfg.PostgresDSN), nil
	case cfg.SQLiteFile != "":
		return &sqlite.Dialector{
			DriverName: "sqlite", // modernc.org/sqlite, no CGO needed
			DSN:        cfg.SQLiteFile + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		}, nil
	}
	return nil, fmt.Errorf("no database configured: set MYSQL_DSN, POSTGRES_DSN or SQLITE_FILE")
}

// normalizeMySQLDSN makes sure timestamps are parsed and text is utf8mb4.
func normalizeMySQLDSN(dsn string) (string, error) {
	c, err := mysqlconf.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse MYSQL_DSN: %w", err)
	}
	c.ParseTime = true
	if c.Params == nil {
		c.Params = map[string]string{}
	}
	if _, ok := c.Params["charset"]; !ok {
		c.Params["charset"] = "utf8mb4"
	}
	return c.FormatDSN(), nil
}

func newLogger(debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return logger.New(log.New(os.Stdout, "", log.LstdFlags), logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
