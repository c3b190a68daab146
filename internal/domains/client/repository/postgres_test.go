package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-backend/internal/domains/client/model"
	"realestate-backend/internal/infrastructure/database/dbtest"
)

func newRepo(t *testing.T) (Repository, *pgxpool.Pool) {
	pool := dbtest.NewPool(t)
	return NewPostgresRepository(pool), pool
}

func newClient(name string, next *time.Time) model.Client {
	return model.Client{
		Name:           name,
		Phone:          "0902000222",
		ServiceType:    model.ServiceSelling,
		FollowUp:       model.FollowUpWeekly,
		Status:         model.StatusActive,
		NextFollowUpAt: next,
	}
}

func clientCount(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM clients`).Scan(&n))
	return n
}

func TestBulkCreate_RollsBackWholeBatch(t *testing.T) {
	r, pool := newRepo(t)
	ctx := context.Background()

	bad := newClient("Row Two", nil)
	bad.ServiceType = "timeshare"

	_, err := r.BulkCreate(ctx, []model.Client{newClient("Row One", nil), bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert client 2")
	assert.Equal(t, 0, clientCount(t, pool))

	n, err := r.BulkCreate(ctx, []model.Client{newClient("Row One", nil), newClient("Row Two", nil)})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, clientCount(t, pool))
}

func TestList_DueOnly(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()
	past := now.Add(-48 * time.Hour)
	future := now.Add(72 * time.Hour)

	for _, c := range []model.Client{newClient("Overdue", &past), newClient("Later", &future), newClient("Never", nil)} {
		c := c
		require.NoError(t, r.Create(ctx, &c))
	}

	clients, total, err := r.List(ctx, model.ClientFilter{DueOnly: true, DueBefore: now})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, clients, 1)
	assert.Equal(t, "Overdue", clients[0].Name)

	clients, _, err = r.List(ctx, model.ClientFilter{Sort: "next_follow_up_at", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, clients, 3)
	assert.Equal(t, "Never", clients[2].Name, "nulls sort last")
}

func TestRestoreAndPurge_StateChecks(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()
	c := newClient("Active Client", nil)
	require.NoError(t, r.Create(ctx, &c))

	assert.ErrorIs(t, r.Restore(ctx, c.ID), model.ErrClientNotDeleted)
	assert.ErrorIs(t, r.Purge(ctx, c.ID), model.ErrClientNotDeleted)
	assert.ErrorIs(t, r.Purge(ctx, uuid.New()), model.ErrClientNotFound)

	require.NoError(t, r.SoftDelete(ctx, c.ID))
	_, err := r.FindByID(ctx, c.ID, false)
	assert.ErrorIs(t, err, model.ErrClientNotFound)

	found, err := r.FindByID(ctx, c.ID, true)
	require.NoError(t, err)
	assert.NotNil(t, found.DeletedAt)

	require.NoError(t, r.Restore(ctx, c.ID))
	found, err = r.FindByID(ctx, c.ID, false)
	require.NoError(t, err)
	assert.Nil(t, found.DeletedAt)
}

func TestPurgeDeletedBefore_KeepsRecentDeletions(t *testing.T) {
	r, pool := newRepo(t)
	ctx := context.Background()

	old := newClient("Old", nil)
	recent := newClient("Recent", nil)
	kept := newClient("Kept", nil)
	for _, c := range []*model.Client{&old, &recent, &kept} {
		require.NoError(t, r.Create(ctx, c))
	}
	require.NoError(t, r.SoftDelete(ctx, old.ID))
	require.NoError(t, r.SoftDelete(ctx, recent.ID))
	_, err := pool.Exec(ctx, `UPDATE clients SET deleted_at = NOW() - INTERVAL '40 days' WHERE id = $1`, old.ID)
	require.NoError(t, err)

	n, err := r.PurgeDeletedBefore(ctx, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = r.FindByID(ctx, old.ID, true)
	assert.ErrorIs(t, err, model.ErrClientNotFound)
	_, err = r.FindByID(ctx, recent.ID, true)
	assert.NoError(t, err)
	assert.Equal(t, 2, clientCount(t, pool))
}
