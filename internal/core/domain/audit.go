package domain

import "time"

// Audit is the soft-delete and timestamp block shared by every collection.
// Documents with Deleted set are hidden from listings but still resolvable by id.
type Audit struct {
	Deleted   bool       `json:"deleted" bson:"deleted"`
	DeletedAt *time.Time `json:"deletedAt" bson:"deletedAt"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// NewAudit returns the block stamped on a freshly created document.
func NewAudit(now time.Time) Audit {
	return Audit{CreatedAt: now, UpdatedAt: now}
}
