package worker

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Worker is a maintenance worker record. Workers are never registered by
// an end user; a record is created lazily the first time an admin assigns
// that worker to an issue, then reused by identity match.
type Worker struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FullName     string             `bson:"full_name" json:"fullName"`
	MobileNumber string             `bson:"mobile_number" json:"mobileNumber"`
	Role         string             `bson:"role" json:"role"`
	UserRole     string             `bson:"user_role" json:"userRole"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

type ListParams struct {
	Role     string
	Search   string
	Page     int
	PageSize int
}
