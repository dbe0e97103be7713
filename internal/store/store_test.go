package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/logger"
	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/models"
)

var requestTestColumns = []string{
	"id", "property_name", "activity_type", "start_date", "end_date", "message", "bounds",
	"requester_user_id", "requester_name", "status",
	"landowner_name", "landowner_email", "landowner_phone", "landowner_notes", "responded_at",
	"requested_at", "created_at", "updated_at",
}

func newTestStore(t *testing.T) (*RequestStore, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return New(sqlx.NewDb(mockDB, "sqlmock"), logger.NewTestLogger(t)), mock
}

func pendingRow(id string, createdAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(requestTestColumns).AddRow(
		id, "Miller Farm", "metal_detecting",
		createdAt.Add(48*time.Hour), createdAt.Add(96*time.Hour),
		nil, []byte(`[{"latitude":44.1,"longitude":-89.2},{"latitude":44.2,"longitude":-89.1}]`),
		"user-42", "Sam Fields", "pending",
		nil, nil, nil, nil, nil,
		createdAt, createdAt, createdAt,
	)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2026, time.August, 10, 9, 0, 0, 0, time.UTC)

	t.Run("returns the record", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectQuery(`(?s)SELECT (.+) FROM permission_requests WHERE id = \$1`).
			WithArgs("req-1").
			WillReturnRows(pendingRow("req-1", createdAt))

		req, err := s.GetByID(ctx, "req-1")

		require.NoError(t, err)
		assert.Equal(t, "req-1", req.ID)
		assert.Equal(t, models.StatusPending, req.Status)
		assert.Equal(t, models.ActivityMetalDetecting, req.ActivityType)
		assert.Len(t, req.Bounds, 2)
		assert.Equal(t, 44.1, req.Bounds[0].Latitude)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id is ErrNotFound", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectQuery(`(?s)SELECT (.+) FROM permission_requests WHERE id = \$1`).
			WithArgs("abc123").
			WillReturnRows(sqlmock.NewRows(requestTestColumns))

		req, err := s.GetByID(ctx, "abc123")

		assert.Nil(t, req)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("infrastructure failure is not ErrNotFound", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectQuery(`(?s)SELECT (.+) FROM permission_requests WHERE id = \$1`).
			WithArgs("req-1").
			WillReturnError(errors.New("connection refused"))

		req, err := s.GetByID(ctx, "req-1")

		assert.Nil(t, req)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRespondPending(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2026, time.August, 10, 9, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)

	resp := models.LandownerResponse{
		Status:         models.StatusApproved,
		LandownerName:  "Jane Doe",
		LandownerEmail: "jane@example.com",
	}

	t.Run("writes all responder fields in one conditional update", func(t *testing.T) {
		s, mock := newTestStore(t)

		rows := sqlmock.NewRows(requestTestColumns).AddRow(
			"req-1", "Miller Farm", "metal_detecting",
			createdAt.Add(48*time.Hour), createdAt.Add(96*time.Hour),
			nil, []byte(`[]`),
			"user-42", "Sam Fields", "approved",
			"Jane Doe", "jane@example.com", nil, nil, now,
			createdAt, createdAt, now,
		)
		mock.ExpectQuery(`(?s)UPDATE permission_requests\s+SET status = \$2,(.+)WHERE id = \$1 AND status = 'pending'\s+RETURNING`).
			WithArgs("req-1", models.StatusApproved, "Jane Doe", "jane@example.com", nil, nil, now).
			WillReturnRows(rows)

		req, err := s.RespondPending(ctx, "req-1", resp, now)

		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, req.Status)
		require.NotNil(t, req.LandownerName)
		assert.Equal(t, "Jane Doe", *req.LandownerName)
		require.NotNil(t, req.RespondedAt)
		assert.Equal(t, now, req.RespondedAt.UTC())
		assert.Equal(t, now, req.UpdatedAt.UTC())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no pending row is ErrNotFound", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectQuery(`(?s)UPDATE permission_requests\s+SET status = \$2,`).
			WithArgs("req-1", models.StatusApproved, "Jane Doe", "jane@example.com", nil, nil, now).
			WillReturnRows(sqlmock.NewRows(requestTestColumns))

		req, err := s.RespondPending(ctx, "req-1", resp, now)

		assert.Nil(t, req)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2026, time.August, 10, 9, 0, 0, 0, time.UTC)

	t.Run("patches only the provided fields", func(t *testing.T) {
		s, mock := newTestStore(t)

		notes := "gate code is 4417"
		rows := pendingRow("req-1", createdAt)
		mock.ExpectQuery(`(?s)UPDATE permission_requests SET updated_at = \$2, landowner_notes = \$3 WHERE id = \$1 RETURNING`).
			WithArgs("req-1", sqlmock.AnyArg(), notes).
			WillReturnRows(rows)

		req, err := s.Update(ctx, "req-1", Patch{LandownerNotes: &notes})

		require.NoError(t, err)
		assert.Equal(t, "req-1", req.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id is ErrNotFound", func(t *testing.T) {
		s, mock := newTestStore(t)

		status := models.StatusDenied
		mock.ExpectQuery(`(?s)UPDATE permission_requests SET updated_at = \$2, status = \$3 WHERE id = \$1 RETURNING`).
			WithArgs("ghost", sqlmock.AnyArg(), status).
			WillReturnRows(sqlmock.NewRows(requestTestColumns))

		req, err := s.Update(ctx, "ghost", Patch{Status: &status})

		assert.Nil(t, req)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	requestedAt := time.Date(2026, time.August, 28, 16, 30, 0, 0, time.UTC)

	t.Run("assigns an id and pending status", func(t *testing.T) {
		s, mock := newTestStore(t)

		rows := pendingRow("generated-id", requestedAt)
		mock.ExpectQuery(`(?s)INSERT INTO permission_requests`).
			WillReturnRows(rows)

		created, err := s.Create(ctx, &models.PermissionRequest{
			PropertyName:    "Miller Farm",
			ActivityType:    models.ActivityMetalDetecting,
			StartDate:       requestedAt.Add(48 * time.Hour),
			EndDate:         requestedAt.Add(96 * time.Hour),
			RequesterUserID: "user-42",
			RequesterName:   "Sam Fields",
			RequestedAt:     requestedAt,
		})

		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, created.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
