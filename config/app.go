package config

type App struct {
	Env      string `json:"env" yaml:"env"`
	Debug    bool   `json:"debug" yaml:"debug"`
	LogLevel string `json:"log_level" yaml:"log_level"`
	// NodeID 雪花算法节点, 多实例部署时每个实例不同
	NodeID int64 `json:"node_id" yaml:"node_id"`
}

// MaxNodeID is the largest snowflake node id (10 node bits).
const MaxNodeID = 1023
