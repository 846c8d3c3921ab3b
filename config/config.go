package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 配置信息
type Config struct {
	App      *App            `json:"app" yaml:"app"`
	Server   *Server         `json:"server" yaml:"server"`
	Database *Database       `json:"database" yaml:"database"`
	Redis    *Redis          `json:"redis" yaml:"redis"`
	RocketMQ *RocketMQConfig `json:"rocketmq" yaml:"rocketmq"`
	Routes   *Routes         `json:"routes" yaml:"routes"`
}

type Server struct {
	Http            int           `json:"http" yaml:"http"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// New reads filename and panics on failure. Used by the binaries where a broken
// config must stop the process.
func New(filename string) *Config {
	conf, err := Load(filename)
	if err != nil {
		panic(err)
	}
	return conf
}

// Load reads the YAML file (a missing file means defaults only), then .env and
// environment overrides.
func Load(filename string) (*Config, error) {
	conf := &Config{}

	content, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(content, conf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	_ = godotenv.Load()

	conf.fillDefaults()
	if err := conf.applyEnv(); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Path returns the config file used for env, e.g. configs/config.dev.yaml.
func Path(env string) string {
	if env == "" {
		env = "dev"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

// Debug 调试模式
func (c *Config) Debug() bool {
	return c.App.Debug
}

func (c *Config) Validate() error {
	if c.App.NodeID < 0 || c.App.NodeID > MaxNodeID {
		return fmt.Errorf("app.node_id: must be within 0-%d, got %d", MaxNodeID, c.App.NodeID)
	}
	if c.Server.Http <= 0 || c.Server.Http > 65535 {
		return fmt.Errorf("server.http: invalid port %d", c.Server.Http)
	}
	switch c.Database.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver)
	}
	for _, op := range c.Routes.Enabled {
		if !IsOperation(op) {
			return fmt.Errorf("routes.enabled: unknown operation %q", op)
		}
	}
	return nil
}

func (c *Config) fillDefaults() {
	if c.App == nil {
		c.App = &App{}
	}
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}

	if c.Server == nil {
		c.Server = &Server{}
	}
	if c.Server.Http == 0 {
		c.Server.Http = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 3 * time.Second
	}

	if c.Database == nil {
		c.Database = &Database{AutoMigrate: true}
	}
	c.Database.fillDefaults()

	if c.Redis == nil {
		c.Redis = &Redis{}
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 30 * time.Second
	}

	if c.RocketMQ == nil {
		c.RocketMQ = &RocketMQConfig{}
	}
	if c.RocketMQ.Topic == "" {
		c.RocketMQ.Topic = "bird_events"
	}
	if c.RocketMQ.Producer.Group == "" {
		c.RocketMQ.Producer.Group = "aviary_producer"
	}
	if c.RocketMQ.Producer.Retry == 0 {
		c.RocketMQ.Producer.Retry = 2
	}

	if c.Routes == nil || c.Routes.Enabled == nil {
		c.Routes = &Routes{Enabled: AllOperations()}
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.App.LogLevel = v
	}
	if v := os.Getenv("NODE_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("NODE_ID: %w", err)
		}
		c.App.NodeID = id
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HTTP_PORT: %w", err)
		}
		c.Server.Http = port
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		c.Database.MySQL.DSN = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.MySQL.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.MySQL.Password = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLite.Path = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Enabled = true
		c.Redis.Address = v
	}
	if v, ok := os.LookupEnv("ROUTES_ENABLED"); ok {
		c.Routes.Enabled = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
