package permissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/logger"
	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/metrics"
	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/models"
	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/store"
	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/timeutil"
)

var (
	ErrNotFound     = errors.New("permission request not found")
	ErrExpired      = errors.New("permission request has expired")
	ErrInvalidInput = errors.New("invalid landowner response")
)

// ConflictError reports a response against a request that already left
// the pending state. The existing status is carried so the caller can
// name it.
type ConflictError struct {
	Existing models.RequestStatus
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("request already %s", e.Existing)
}

// Store is the slice of the data layer the lifecycle service needs.
type Store interface {
	GetByID(ctx context.Context, id string) (*models.PermissionRequest, error)
	RespondPending(ctx context.Context, id string, resp models.LandownerResponse, now time.Time) (*models.PermissionRequest, error)
}

// Notifier is signalled after a successful response. Delivery to the
// requester is handled elsewhere.
type Notifier interface {
	RequestResponded(ctx context.Context, req *models.PermissionRequest)
}

const cacheTTL = 5 * time.Minute

// Service orchestrates fetching a permission request and recording the
// single landowner response. Expiry is a derived, read-time state: it is
// computed against the clock on every fetch and at the start of every
// respond, and never written back to the store.
type Service struct {
	store    Store
	cache    *redis.Client // nil disables the fetch cache
	notifier Notifier
	log      logger.Logger
	now      func() time.Time
}

func NewService(st Store, cache *redis.Client, notifier Notifier, log logger.Logger) *Service {
	return &Service{
		store:    st,
		cache:    cache,
		notifier: notifier,
		log:      log.WithFields(map[string]interface{}{"component": "permissions"}),
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Fetch loads a permission request by id. An expired pending request is
// returned unmodified alongside ErrExpired so the caller can distinguish
// "stale but readable" from success; its persisted status stays pending.
func (s *Service) Fetch(ctx context.Context, id string) (*models.PermissionRequest, error) {
	req := s.cacheGet(ctx, id)
	if req == nil {
		var err error
		req, err = s.store.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				metrics.RequestsFetched.WithLabelValues("not_found").Inc()
				return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			metrics.RequestsFetched.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("fetch permission request: %w", err)
		}
	}

	if timeutil.IsExpiredAt(req.CreatedAt, req.Status, s.now()) {
		metrics.RequestsFetched.WithLabelValues("expired").Inc()
		return req, ErrExpired
	}

	s.cacheSet(ctx, req)
	metrics.RequestsFetched.WithLabelValues("ok").Inc()
	return req, nil
}

// Respond records the landowner decision. Validation happens before any
// store call; the write itself is conditional on the request still being
// pending, so a concurrent double submission loses cleanly instead of
// overwriting the first answer.
func (s *Service) Respond(ctx context.Context, id string, resp models.LandownerResponse) (*models.PermissionRequest, error) {
	if err := validateResponse(resp); err != nil {
		return nil, err
	}
	now := s.now()

	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load permission request: %w", err)
	}
	if cur.Status != models.StatusPending {
		return nil, &ConflictError{Existing: cur.Status}
	}
	if timeutil.IsExpiredAt(cur.CreatedAt, cur.Status, now) {
		return nil, ErrExpired
	}

	updated, err := s.store.RespondPending(ctx, id, resp, now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Lost the race: someone responded between our read and write.
			if cur2, err2 := s.store.GetByID(ctx, id); err2 == nil && cur2.Status != models.StatusPending {
				return nil, &ConflictError{Existing: cur2.Status}
			}
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("record landowner response: %w", err)
	}

	s.cacheInvalidate(ctx, id)
	metrics.ResponsesRecorded.WithLabelValues(string(updated.Status)).Inc()
	s.log.Info("permission request responded", map[string]interface{}{
		"requestId":     updated.ID,
		"status":        updated.Status,
		"landownerName": resp.LandownerName,
	})

	if s.notifier != nil {
		s.notifier.RequestResponded(ctx, updated)
	}
	return updated, nil
}

func validateResponse(resp models.LandownerResponse) error {
	if resp.Status != models.StatusApproved && resp.Status != models.StatusDenied {
		return fmt.Errorf("%w: status must be \"approved\" or \"denied\"", ErrInvalidInput)
	}
	if len(strings.TrimSpace(resp.LandownerName)) < 2 {
		return fmt.Errorf("%w: landowner name must be at least 2 characters", ErrInvalidInput)
	}
	return nil
}

func cacheKey(id string) string { return "permreq:" + id }

func (s *Service) cacheGet(ctx context.Context, id string) *models.PermissionRequest {
	if s.cache == nil {
		return nil
	}
	val, err := s.cache.Get(ctx, cacheKey(id)).Result()
	if err != nil {
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return nil
	}
	var req models.PermissionRequest
	if err := json.Unmarshal([]byte(val), &req); err != nil {
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return nil
	}
	metrics.CacheHits.WithLabelValues("hit").Inc()
	return &req
}

func (s *Service) cacheSet(ctx context.Context, req *models.PermissionRequest) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(req)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(req.ID), data, cacheTTL).Err(); err != nil {
		s.log.Warn("cache write failed", map[string]interface{}{
			"requestId": req.ID,
			"error":     err.Error(),
		})
	}
}

func (s *Service) cacheInvalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(id)).Err(); err != nil {
		s.log.Warn("cache invalidation failed", map[string]interface{}{
			"requestId": id,
			"error":     err.Error(),
		})
	}
}
