package snowflake

import (
	"sync/atomic"

	"github.com/bwmarrin/snowflake"
)

var node atomic.Pointer[snowflake.Node]

func init() {
	n, _ := snowflake.NewNode(1)
	node.Store(n)
}

// SetNode 多实例部署时每个实例使用不同的 node id (0-1023)
func SetNode(id int64) error {
	n, err := snowflake.NewNode(id)
	if err != nil {
		return err
	}
	node.Store(n)
	return nil
}

func GenID() int64 {
	return node.Load().Generate().Int64()
}

// GenRequestID 请求链路ID
func GenRequestID() string {
	return node.Load().Generate().Base58()
}
