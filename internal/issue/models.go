package issue

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending    = "Pending"
	StatusInProgress = "In-progress"
	StatusCompleted  = "Completed"
)

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Issue is a maintenance complaint raised by a student. Lifecycle
// invariants: isCompleted implies dateCompleted and status Completed;
// isAssigned implies assignedTo and dateAssigned.
type Issue struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	HostelNumber  int                 `bson:"hostel_number" json:"hostelNumber"`
	Title         string              `bson:"title" json:"title"`
	Description   string              `bson:"description" json:"description"`
	Tags          []string            `bson:"tags,omitempty" json:"tags"`
	Status        string              `bson:"status" json:"status"`
	Priority      string              `bson:"priority" json:"priority"`
	IsCompleted   bool                `bson:"is_completed" json:"isCompleted"`
	IsAssigned    bool                `bson:"is_assigned" json:"isAssigned"`
	RaisedBy      primitive.ObjectID  `bson:"raised_by" json:"raisedBy"`
	AssignedBy    *primitive.ObjectID `bson:"assigned_by,omitempty" json:"assignedBy,omitempty"`
	AssignedTo    *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assignedTo,omitempty"`
	DateAssigned  *time.Time          `bson:"date_assigned,omitempty" json:"dateAssigned,omitempty"`
	DateCompleted *time.Time          `bson:"date_completed,omitempty" json:"dateCompleted,omitempty"`
	Images        []string            `bson:"images,omitempty" json:"images"`
	CreatedAt     time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updatedAt"`
}

type CreateIssueRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	HostelNumber int      `json:"hostelNumber"`
	Tags         []string `json:"tags"`
	Images       []string `json:"images"`
}

func (r CreateIssueRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.HostelNumber, validation.Required),
	)
}

// Patch is an explicit partial update: only non-nil fields overwrite the
// stored record, so an absent field and a provided zero value are
// distinct (patching hostelNumber to 0 really sets 0).
type Patch struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	HostelNumber *int      `json:"hostelNumber"`
	Tags         *[]string `json:"tags"`
	Status       *string   `json:"status"`
	Priority     *string   `json:"priority"`
	IsCompleted  *bool     `json:"isCompleted"`
	IsAssigned   *bool     `json:"isAssigned"`
	Images       *[]string `json:"images"`
}

func (p Patch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Status, validation.In(StatusPending, StatusInProgress, StatusCompleted)),
		validation.Field(&p.Priority, validation.In(PriorityLow, PriorityMedium, PriorityHigh)),
	)
}

type AssignWorkerRequest struct {
	IssueID      string `json:"issueId"`
	WorkerName   string `json:"workerName"`
	WorkerMobNo  string `json:"workerMobNo"`
	WorkerRole   string `json:"workerRole"`
	IsAssigned   *bool  `json:"isAssigned"`
}

func (r AssignWorkerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IssueID, validation.Required),
		validation.Field(&r.WorkerName, validation.Required),
		validation.Field(&r.WorkerMobNo, validation.Required),
		validation.Field(&r.WorkerRole, validation.Required),
	)
}

type SetPriorityRequest struct {
	IssueID  string `json:"issueId"`
	Priority string `json:"priority"`
}

func (r SetPriorityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IssueID, validation.Required),
		validation.Field(&r.Priority, validation.Required,
			validation.In(PriorityLow, PriorityMedium, PriorityHigh)),
	)
}

// ListParams mirrors the /issue/all query surface. Nil filters are
// "not provided", not "false"/"zero".
type ListParams struct {
	HostelNumber *int
	IsCompleted  *bool
	IsAssigned   *bool
	Search       string
	Sort         string
	Page         int
	PageSize     int
}
