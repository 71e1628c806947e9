package shared

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type capturingExecer struct {
	sql  string
	args []any
}

func (c *capturingExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.sql = sql
	c.args = args
	return pgconn.CommandTag{}, nil
}

func TestAuditRecordDefaultsTimestamp(t *testing.T) {
	exec := &capturingExecer{}
	l := &AuditLogger{db: exec}

	before := time.Now()
	err := l.Record(context.Background(), AuditLog{
		Action:   "status.approved",
		Entity:   "presupuesto",
		EntityID: "42",
	})
	require.NoError(t, err)

	require.Len(t, exec.args, 5)
	at, ok := exec.args[4].(time.Time)
	require.True(t, ok)
	require.False(t, at.IsZero())
	require.False(t, at.Before(before))
}

func TestAuditRecordKeepsExplicitTimestamp(t *testing.T) {
	exec := &capturingExecer{}
	l := &AuditLogger{db: exec}

	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	err := l.Record(context.Background(), AuditLog{
		Action:   "status.pending",
		Entity:   "presupuesto",
		EntityID: "7",
		At:       at,
	})
	require.NoError(t, err)
	require.Equal(t, at, exec.args[4])
}

func TestAuditRecordRequiresIdentity(t *testing.T) {
	l := &AuditLogger{db: &capturingExecer{}}
	err := l.Record(context.Background(), AuditLog{Action: "status.approved"})
	require.Error(t, err)
}
