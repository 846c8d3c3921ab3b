package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Database 数据库配置. Driver picks which of MySQL / SQLite is used.
type Database struct {
	Driver      string `json:"driver" yaml:"driver"`
	AutoMigrate bool   `json:"auto_migrate" yaml:"auto_migrate"`
	MySQL       MySQL  `json:"mysql" yaml:"mysql"`
	SQLite      SQLite `json:"sqlite" yaml:"sqlite"`

	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns"`
	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	SlowThreshold   time.Duration `json:"slow_threshold" yaml:"slow_threshold"`
}

type MySQL struct {
	DSN      string `json:"dsn" yaml:"dsn"`
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`
	Charset  string `json:"charset" yaml:"charset"`
}

type SQLite struct {
	Path string `json:"path" yaml:"path"`
}

// Dsn builds the go-sql-driver DSN unless one was configured verbatim.
func (m *MySQL) Dsn() string {
	if m.DSN != "" {
		return m.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=True&loc=Local",
		m.Username, m.Password, joinHostPort(m.Host, m.Port), m.Database, m.Charset)
}

func (d *Database) fillDefaults() {
	if d.Driver == "" {
		d.Driver = DriverSQLite
	}
	if d.SQLite.Path == "" {
		d.SQLite.Path = "aviary.db"
	}
	if d.MySQL.Host == "" {
		d.MySQL.Host = "127.0.0.1"
	}
	if d.MySQL.Port == 0 {
		d.MySQL.Port = 3306
	}
	if d.MySQL.Username == "" {
		d.MySQL.Username = "root"
	}
	if d.MySQL.Database == "" {
		d.MySQL.Database = "aviary"
	}
	if d.MySQL.Charset == "" {
		d.MySQL.Charset = "utf8mb4"
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = 10
	}
	if d.MaxOpenConns == 0 {
		d.MaxOpenConns = 100
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
	if d.SlowThreshold == 0 {
		d.SlowThreshold = 200 * time.Millisecond
	}
}

func hasPort(addr string) bool {
	_, _, err := net.SplitHostPort(addr)
	return err == nil
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
