package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/logger"
	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/models"
)

// ErrNotFound is returned when no permission request document exists for
// an id, or when a conditional write matched no pending row.
var ErrNotFound = errors.New("permission request not found")

const requestColumns = `id, property_name, activity_type, start_date, end_date, message, bounds,
	requester_user_id, requester_name, status,
	landowner_name, landowner_email, landowner_phone, landowner_notes, responded_at,
	requested_at, created_at, updated_at`

// RequestStore is the data-access layer over the permission_requests
// collection. All operations are single-document; there is no
// multi-document consistency requirement.
type RequestStore struct {
	db  *sqlx.DB
	log logger.Logger
}

func New(conn *sqlx.DB, log logger.Logger) *RequestStore {
	return &RequestStore{
		db:  conn,
		log: log.WithFields(map[string]interface{}{"component": "store"}),
	}
}

// GetByID performs a point lookup. Absence is reported as ErrNotFound,
// never as a panic or a nil record with nil error.
func (s *RequestStore) GetByID(ctx context.Context, id string) (*models.PermissionRequest, error) {
	var req models.PermissionRequest
	query := fmt.Sprintf(`SELECT %s FROM permission_requests WHERE id = $1`, requestColumns)
	if err := s.db.GetContext(ctx, &req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get permission request: %w", err)
	}
	return &req, nil
}

// Patch is a partial update of responder-controlled fields. Nil fields
// are left untouched.
type Patch struct {
	Status         *models.RequestStatus
	LandownerName  *string
	LandownerEmail *string
	LandownerPhone *string
	LandownerNotes *string
	RespondedAt    *time.Time
}

// Update applies a partial patch and refreshes updated_at. Fails with
// ErrNotFound if the id does not resolve to an existing document.
func (s *RequestStore) Update(ctx context.Context, id string, p Patch) (*models.PermissionRequest, error) {
	set := []string{"updated_at = $2"}
	args := []interface{}{id, time.Now().UTC()}

	add := func(column string, v interface{}) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.LandownerName != nil {
		add("landowner_name", *p.LandownerName)
	}
	if p.LandownerEmail != nil {
		add("landowner_email", *p.LandownerEmail)
	}
	if p.LandownerPhone != nil {
		add("landowner_phone", *p.LandownerPhone)
	}
	if p.LandownerNotes != nil {
		add("landowner_notes", *p.LandownerNotes)
	}
	if p.RespondedAt != nil {
		add("responded_at", *p.RespondedAt)
	}

	query := fmt.Sprintf(
		`UPDATE permission_requests SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(set, ", "), requestColumns,
	)

	var req models.PermissionRequest
	if err := s.db.GetContext(ctx, &req, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update permission request: %w", err)
	}
	return &req, nil
}

// RespondPending writes the landowner response in one conditional update:
// the WHERE clause requires status = 'pending', so of two concurrent
// responders the database accepts exactly one. ErrNotFound here means "no
// pending row with that id" and the caller decides whether that is a
// missing document or an already-responded one.
func (s *RequestStore) RespondPending(ctx context.Context, id string, resp models.LandownerResponse, now time.Time) (*models.PermissionRequest, error) {
	query := fmt.Sprintf(`
		UPDATE permission_requests
		SET status = $2,
		    landowner_name = $3,
		    landowner_email = $4,
		    landowner_phone = $5,
		    landowner_notes = $6,
		    responded_at = $7,
		    updated_at = $7
		WHERE id = $1 AND status = 'pending'
		RETURNING %s`, requestColumns)

	var req models.PermissionRequest
	err := s.db.GetContext(ctx, &req, query,
		id,
		resp.Status,
		strings.TrimSpace(resp.LandownerName),
		nullIfEmpty(resp.LandownerEmail),
		nullIfEmpty(resp.LandownerPhone),
		nullIfEmpty(resp.Notes),
		now,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("respond to permission request: %w", err)
	}

	s.log.Info("landowner response recorded", map[string]interface{}{
		"requestId": req.ID,
		"status":    req.Status,
	})
	return &req, nil
}

// Create inserts a new pending request. It is used by the companion
// ingest path, not by the public HTTP surface; ids are assigned here when
// the caller did not bring one.
func (s *RequestStore) Create(ctx context.Context, req *models.PermissionRequest) (*models.PermissionRequest, error) {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	now := time.Now().UTC()

	query := fmt.Sprintf(`
		INSERT INTO permission_requests
		(id, property_name, activity_type, start_date, end_date, message, bounds,
		 requester_user_id, requester_name, status, requested_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING %s`, requestColumns)

	var created models.PermissionRequest
	err := s.db.GetContext(ctx, &created, query,
		req.ID, req.PropertyName, req.ActivityType, req.StartDate, req.EndDate,
		req.Message, req.Bounds, req.RequesterUserID, req.RequesterName,
		models.StatusPending, req.RequestedAt, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create permission request: %w", err)
	}

	s.log.Info("permission request created", map[string]interface{}{
		"requestId": created.ID,
		"activity":  created.ActivityType,
	})
	return &created, nil
}

func nullIfEmpty(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
