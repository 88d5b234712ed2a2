package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

// DefaultNode is used before Init and when Init is given an invalid node ID.
const DefaultNode int64 = 1

var (
	mu   sync.Mutex
	node *snowflake.Node
)

// Init sets the Snowflake node. An out-of-range node ID returns an error and
// leaves the generator on DefaultNode so request IDs keep working.
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		n, _ = snowflake.NewNode(DefaultNode)
	}

	mu.Lock()
	node = n
	mu.Unlock()
	return err
}

// NewString returns a time-ordered request ID in base58 form, short enough
// for a response header.
func NewString() string {
	mu.Lock()
	if node == nil {
		node, _ = snowflake.NewNode(DefaultNode)
	}
	n := node
	mu.Unlock()

	return n.Generate().Base58()
}
