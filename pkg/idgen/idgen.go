// Package idgen выдаёт идентификаторы продуктов на основе snowflake.
package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

const productPrefix = "prod-"

// Generator потокобезопасен: snowflake.Node сам синхронизирует выдачу.
type Generator struct {
	node *snowflake.Node
}

func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}

	return &Generator{node: node}, nil
}

// ProductID возвращает идентификатор вида prod-<snowflake>.
func (g *Generator) ProductID() string {
	return productPrefix + g.node.Generate().String()
}

// CategoryID возвращает идентификатор категории.
func (g *Generator) CategoryID() string {
	return "cat-" + g.node.Generate().String()
}

// DimensionID возвращает идентификатор варианта размера.
func (g *Generator) DimensionID() string {
	return "dim-" + g.node.Generate().String()
}
