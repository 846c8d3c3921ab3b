package database

import (
	"Aviary/config"
	"Aviary/pkg/log"
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewDB 初始化数据库连接. The returned cleanup closes the pool.
func NewDB(conf *config.Config) (*gorm.DB, func(), error) {
	dbConf := conf.Database

	dialector, err := Dialector(dbConf)
	if err != nil {
		return nil, nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(log.L, dbConf.SlowThreshold),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", dbConf.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	if dbConf.Driver == config.DriverSQLite {
		// sqlite allows a single writer; one connection keeps writes serialized
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(dbConf.MaxIdleConns)
		sqlDB.SetMaxOpenConns(dbConf.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(dbConf.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", dbConf.Driver, err)
	}
	log.L.Info("connect database success", zap.String("driver", dbConf.Driver))

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			log.L.Error("close database", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

func Dialector(dbConf *config.Database) (gorm.Dialector, error) {
	switch dbConf.Driver {
	case config.DriverMySQL:
		return mysql.Open(dbConf.MySQL.Dsn()), nil
	case config.DriverSQLite:
		return sqlite.Open(dbConf.SQLite.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbConf.Driver)
	}
}
