package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ActivityType is the outdoor activity a requester wants permission for.
// The set mirrors the companion mobile app.
type ActivityType string

const (
	ActivityMetalDetecting      ActivityType = "metal_detecting"
	ActivityRockhounding        ActivityType = "rockhounding"
	ActivityFossilHunting       ActivityType = "fossil_hunting"
	ActivityArrowheadHunting    ActivityType = "arrowhead_hunting"
	ActivityShedHunting         ActivityType = "shed_hunting"
	ActivityHiking              ActivityType = "hiking"
	ActivityPhotography         ActivityType = "photography"
	ActivityWildlifeObservation ActivityType = "wildlife_observation"
)

var activityLabels = map[ActivityType]string{
	ActivityMetalDetecting:      "Metal Detecting",
	ActivityRockhounding:        "Rockhounding",
	ActivityFossilHunting:       "Fossil Hunting",
	ActivityArrowheadHunting:    "Arrowhead Hunting",
	ActivityShedHunting:         "Shed Hunting",
	ActivityHiking:              "Hiking",
	ActivityPhotography:         "Photography",
	ActivityWildlifeObservation: "Wildlife Observation",
}

// Label returns the display name for the activity, falling back to the raw
// value for unknown variants.
func (a ActivityType) Label() string {
	if l, ok := activityLabels[a]; ok {
		return l
	}
	return string(a)
}

func (a ActivityType) Valid() bool {
	_, ok := activityLabels[a]
	return ok
}

// RequestStatus is the lifecycle state of a permission request. Only
// pending requests accept a landowner response; "expired" is derived at
// read time and never written by this service.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusDenied   RequestStatus = "denied"
	StatusExpired  RequestStatus = "expired"
)

// Coordinate is one vertex of the property polygon.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Bounds is the ordered polygon outline, stored as a JSONB column.
type Bounds []Coordinate

func (b Bounds) Value() (driver.Value, error) {
	if b == nil {
		return "[]", nil
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal bounds: %w", err)
	}
	return string(data), nil
}

func (b *Bounds) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*b = nil
		return nil
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("unsupported bounds type %T", src)
	}
}

// PermissionRequest is one landowner-authorization ask for a bounded
// activity over a date range. Created by the mobile app with status
// pending; responded to at most once through this service.
type PermissionRequest struct {
	ID           string       `db:"id" json:"id"`
	PropertyName string       `db:"property_name" json:"propertyName"`
	ActivityType ActivityType `db:"activity_type" json:"activityType"`
	StartDate    time.Time    `db:"start_date" json:"startDate"`
	EndDate      time.Time    `db:"end_date" json:"endDate"`
	Message      *string      `db:"message" json:"message,omitempty"`
	Bounds       Bounds       `db:"bounds" json:"bounds"`

	RequesterUserID string `db:"requester_user_id" json:"requesterUserId"`
	RequesterName   string `db:"requester_name" json:"requesterName"`

	Status RequestStatus `db:"status" json:"status"`

	LandownerName  *string    `db:"landowner_name" json:"landownerName,omitempty"`
	LandownerEmail *string    `db:"landowner_email" json:"landownerEmail,omitempty"`
	LandownerPhone *string    `db:"landowner_phone" json:"landownerPhone,omitempty"`
	LandownerNotes *string    `db:"landowner_notes" json:"landownerNotes,omitempty"`
	RespondedAt    *time.Time `db:"responded_at" json:"respondedAt,omitempty"`

	RequestedAt time.Time `db:"requested_at" json:"requestedAt"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// LandownerResponse is the approve/deny decision submitted from the
// review page.
type LandownerResponse struct {
	Status         RequestStatus `json:"status"`
	LandownerName  string        `json:"landownerName"`
	LandownerEmail string        `json:"landownerEmail,omitempty"`
	LandownerPhone string        `json:"landownerPhone,omitempty"`
	Notes          string        `json:"notes,omitempty"`
}
