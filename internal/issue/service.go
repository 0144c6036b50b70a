package issue

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"hostelsaathi/internal/account"
	"hostelsaathi/internal/apperr"
	"hostelsaathi/internal/worker"
)

type IssueService struct {
	issues  Issues
	workers *worker.WorkerService
	logger  *zap.Logger
	now     func() time.Time
}

func NewIssueService(issues Issues, workers *worker.WorkerService, logger *zap.Logger) *IssueService {
	return &IssueService{issues: issues, workers: workers, logger: logger, now: time.Now}
}

func (s *IssueService) Create(ctx context.Context, raiser *account.Account, req CreateIssueRequest) (*Issue, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.BadRequest("Title, description and hostel number are required")
	}

	now := s.now()
	issue := &Issue{
		ID:           primitive.NewObjectID(),
		HostelNumber: req.HostelNumber,
		Title:        req.Title,
		Description:  req.Description,
		Tags:         req.Tags,
		Status:       StatusPending,
		Priority:     PriorityLow,
		IsCompleted:  false,
		IsAssigned:   false,
		RaisedBy:     raiser.ID,
		Images:       req.Images,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, err
	}
	s.logger.Info("issue created",
		zap.String("id", issue.ID.Hex()),
		zap.Int("hostel", issue.HostelNumber))
	return issue, nil
}

// Update merges the patch over the stored record. Only non-nil fields
// overwrite. A completed issue always ends up with status Completed and
// a dateCompleted stamp (preserving a pre-existing one), regardless of
// what the patch tried to set status to.
func (s *IssueService) Update(ctx context.Context, id primitive.ObjectID, patch Patch) (*Issue, error) {
	if err := patch.Validate(); err != nil {
		return nil, apperr.BadRequest(err.Error())
	}

	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, apperr.NotFound("Issue not found")
	}

	if patch.Title != nil {
		issue.Title = *patch.Title
	}
	if patch.Description != nil {
		issue.Description = *patch.Description
	}
	if patch.HostelNumber != nil {
		issue.HostelNumber = *patch.HostelNumber
	}
	if patch.Tags != nil {
		issue.Tags = *patch.Tags
	}
	if patch.Status != nil {
		issue.Status = *patch.Status
	}
	if patch.Priority != nil {
		issue.Priority = *patch.Priority
	}
	if patch.IsAssigned != nil {
		issue.IsAssigned = *patch.IsAssigned
	}
	if patch.Images != nil {
		issue.Images = *patch.Images
	}
	if patch.IsCompleted != nil {
		issue.IsCompleted = *patch.IsCompleted
	}
	if issue.IsCompleted {
		if issue.DateCompleted == nil {
			completed := s.now()
			issue.DateCompleted = &completed
		}
		issue.Status = StatusCompleted
	}
	issue.UpdatedAt = s.now()

	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// AssignWorker attaches a worker to an issue. Admin only. The worker is
// resolved get-or-create by the exact name/mobile/role triple.
func (s *IssueService) AssignWorker(ctx context.Context, actor *account.Account, req AssignWorkerRequest) (*Issue, *worker.Worker, error) {
	if actor == nil || actor.UserRole != account.RoleAdmin {
		return nil, nil, apperr.Forbidden("Only admin can access.")
	}
	if err := req.Validate(); err != nil {
		return nil, nil, apperr.BadRequest("Worker name, mobile number and role are required")
	}

	id, err := primitive.ObjectIDFromHex(req.IssueID)
	if err != nil {
		return nil, nil, apperr.BadRequest("Invalid issue id")
	}
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if issue == nil {
		return nil, nil, apperr.NotFound("Issue not found")
	}

	assigned, err := s.workers.GetOrCreate(ctx, req.WorkerName, req.WorkerMobNo, req.WorkerRole)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	issue.DateAssigned = &now
	issue.AssignedBy = &actor.ID
	issue.AssignedTo = &assigned.ID
	issue.IsAssigned = true
	if req.IsAssigned != nil {
		issue.IsAssigned = *req.IsAssigned
	}
	issue.UpdatedAt = now

	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, nil, err
	}
	s.logger.Info("worker assigned",
		zap.String("issue", issue.ID.Hex()),
		zap.String("worker", assigned.ID.Hex()))
	return issue, assigned, nil
}

// SetPriority changes an issue's priority. Admin only.
func (s *IssueService) SetPriority(ctx context.Context, actor *account.Account, req SetPriorityRequest) (*Issue, error) {
	if actor == nil || actor.UserRole != account.RoleAdmin {
		return nil, apperr.Forbidden("Only admin can access.")
	}
	if err := req.Validate(); err != nil {
		return nil, apperr.BadRequest("Priority must be one of Low, Medium, High")
	}

	id, err := primitive.ObjectIDFromHex(req.IssueID)
	if err != nil {
		return nil, apperr.BadRequest("Invalid issue id")
	}
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, apperr.NotFound("Issue not found")
	}

	issue.Priority = req.Priority
	issue.UpdatedAt = s.now()

	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

func (s *IssueService) Get(ctx context.Context, id primitive.ObjectID) (*Issue, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, apperr.NotFound("Issue not found")
	}
	return issue, nil
}

func (s *IssueService) List(ctx context.Context, params ListParams) ([]*Issue, int64, error) {
	return s.issues.List(ctx, params)
}
