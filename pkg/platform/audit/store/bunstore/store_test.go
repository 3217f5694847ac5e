package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	audit "droneregistry/pkg/platform/audit"
	"droneregistry/pkg/platform/tx"
)

func newStore(t *testing.T) (*Store, *bun.DB) {
	t.Helper()
	sqldb, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	s := New(db)
	require.NoError(t, s.CreateSchema(context.Background()))
	return s, db
}

func event(action string, at time.Time) audit.Event {
	return audit.Event{
		ID:         uuid.New(),
		Category:   audit.CategoryCompliance,
		Action:     action,
		Timestamp:  at,
		EntityType: "operator",
		EntityID:   uuid.NewString(),
		Detail:     map[string]string{"company_name": "Skyways"},
	}
}

func TestAppendPendingMarkPublished(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := event("operator_created", base)
	second := event("aircraft_created", base.Add(time.Second))
	require.NoError(t, s.Append(ctx, first))
	require.NoError(t, s.Append(ctx, second))

	pending, err := s.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].Event.ID)
	assert.Equal(t, "Skyways", pending[0].Event.Detail["company_name"])

	limited, err := s.Pending(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, s.MarkPublished(ctx, []uuid.UUID{first.ID}, base.Add(time.Minute)))
	pending, err = s.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].Event.ID)
}

func TestAppendJoinsTransaction(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.RunInTx(ctx, nil, func(ctx context.Context, btx bun.Tx) error {
		require.NoError(t, s.Append(tx.WithTx(ctx, btx), event("operator_created", time.Now())))
		return boom
	})
	require.ErrorIs(t, err, boom)

	pending, err := s.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
