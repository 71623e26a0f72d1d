package models

import "time"

// EntityType tags which field descriptor table and upstream endpoints apply.
type EntityType string

const (
	EntityDegree          EntityType = "DEGREE"
	EntityCertification   EntityType = "CERTIFICATION"
	EntityOwnedCourse     EntityType = "OWNED_COURSE"
	EntityAttendedCourse  EntityType = "ATTENDED_COURSE"
	EntityResearchProject EntityType = "RESEARCH_PROJECT"
	EntityInstitution     EntityType = "INSTITUTION"
	EntityPartner         EntityType = "PARTNER"
)

// AllEntityTypes lists every moderated entity type in a fixed order.
var AllEntityTypes = []EntityType{
	EntityDegree,
	EntityCertification,
	EntityOwnedCourse,
	EntityAttendedCourse,
	EntityResearchProject,
	EntityInstitution,
	EntityPartner,
}

// Valid reports whether the entity type is a known moderated type.
func (e EntityType) Valid() bool {
	for _, known := range AllEntityTypes {
		if e == known {
			return true
		}
	}
	return false
}

// RevisionKind distinguishes create proposals from edits of a live record.
type RevisionKind string

const (
	RevisionKindCreate RevisionKind = "CREATE"
	RevisionKindUpdate RevisionKind = "UPDATE"
)

// RevisionStatus captures the lifecycle of the request itself, not of the
// underlying entity.
type RevisionStatus string

const (
	RevisionStatusPending  RevisionStatus = "PENDING"
	RevisionStatusApproved RevisionStatus = "APPROVED"
	RevisionStatusRejected RevisionStatus = "REJECTED"
)

// Record is a flat scalar field set decoded from an upstream payload.
type Record map[string]interface{}

// SubmitterInfo is read-only display context attached to a request. It is
// never part of the field diff.
type SubmitterInfo struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// RevisionRequest is the canonical, normalized shape every other component
// depends on. Upstream payload variance never leaks past the normalizer.
type RevisionRequest struct {
	ID         string         `json:"id"`
	EntityType EntityType     `json:"entityType"`
	Kind       RevisionKind   `json:"kind"`
	Original   Record         `json:"original,omitempty"`
	Proposed   Record         `json:"proposed,omitempty"`
	Status     RevisionStatus `json:"status"`
	AdminNote  *string        `json:"adminNote,omitempty"`
	Submitter  SubmitterInfo  `json:"submitter"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt,omitempty"`
	// Invalid marks requests whose upstream payload failed normalization.
	// They stay visible in the queue so the console can render an explicit
	// invalid-data state instead of silently dropping them.
	Invalid bool `json:"invalid,omitempty"`
}

// SortTime returns the timestamp used for chronological ordering.
func (r *RevisionRequest) SortTime() time.Time {
	if !r.UpdatedAt.IsZero() {
		return r.UpdatedAt
	}
	return r.CreatedAt
}

// DateSort selects chronological ordering for queue views.
type DateSort string

const (
	DateSortOldest DateSort = "OLDEST"
	DateSortNewest DateSort = "NEWEST"
)

// QueueFilter constrains and orders a pending queue view.
type QueueFilter struct {
	Text     string
	SubType  string
	Action   RevisionKind
	DateSort DateSort
}
