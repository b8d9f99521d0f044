package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// ReceiptPrefix is prepended to every receipt number.
const ReceiptPrefix = "RCPT-"

// ReceiptNumbers issues receipt numbers from a snowflake node. Numbers are
// unique across processes as long as every process uses a distinct node id.
type ReceiptNumbers struct {
	node *snowflake.Node
}

// NewReceiptNumbers creates a generator for the given snowflake node id (0-1023).
func NewReceiptNumbers(nodeID int64) (*ReceiptNumbers, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node %d: %w", nodeID, err)
	}
	return &ReceiptNumbers{node: node}, nil
}

// NextReceiptNumber returns a new receipt number.
func (g *ReceiptNumbers) NextReceiptNumber() string {
	return ReceiptPrefix + g.node.Generate().String()
}
