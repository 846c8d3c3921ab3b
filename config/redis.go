package config

import "time"

// Redis Redis配置信息. The bird read cache is only used when Enabled.
type Redis struct {
	Enabled  bool          `json:"enabled" yaml:"enabled"`
	Address  string        `json:"address" yaml:"address"`
	Port     int           `json:"port" yaml:"port"`
	Username string        `json:"username" yaml:"username"`
	Password string        `json:"password" yaml:"password"`
	Database int           `json:"database" yaml:"database"`
	TTL      time.Duration `json:"ttl" yaml:"ttl"`
}

// Addr joins host and port unless Address already carries a port.
func (r *Redis) Addr() string {
	if hasPort(r.Address) {
		return r.Address
	}
	return joinHostPort(r.Address, r.Port)
}
