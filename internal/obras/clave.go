// Package obras hands out claves for work orders tied to budgets.
package obras

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClaveGenerator issues obra claves from a per-year Redis sequence. The
// sequence survives restarts and never reuses a number, so a clave printed
// on a proposal stays unique even if the budget is abandoned.
type ClaveGenerator struct {
	rdb *redis.Client
	now func() time.Time
}

func NewClaveGenerator(rdb *redis.Client) *ClaveGenerator {
	return &ClaveGenerator{rdb: rdb, now: time.Now}
}

// Next returns the next clave, formatted OBR-{YYYY}-{SEQ}.
func (g *ClaveGenerator) Next(ctx context.Context) (string, error) {
	year := g.now().Year()
	seq, err := g.rdb.Incr(ctx, fmt.Sprintf("obra:clave:%d", year)).Result()
	if err != nil {
		return "", fmt.Errorf("obras: next clave: %w", err)
	}
	return fmt.Sprintf("OBR-%d-%04d", year, seq), nil
}
