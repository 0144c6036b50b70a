package worker

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"hostelsaathi/internal/apperr"
)

type WorkerService struct {
	workers Workers
	logger  *zap.Logger
}

func NewWorkerService(workers Workers, logger *zap.Logger) *WorkerService {
	return &WorkerService{workers: workers, logger: logger}
}

// GetOrCreate looks a worker up by the exact three-field identity and
// creates the record when no match exists.
func (s *WorkerService) GetOrCreate(ctx context.Context, fullName, mobileNumber, role string) (*Worker, error) {
	existing, err := s.workers.FindByIdentity(ctx, fullName, mobileNumber, role)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	worker := &Worker{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		MobileNumber: mobileNumber,
		Role:         role,
		UserRole:     "worker",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.workers.Create(ctx, worker); err != nil {
		return nil, err
	}
	s.logger.Info("worker created",
		zap.String("id", worker.ID.Hex()),
		zap.String("role", worker.Role))
	return worker, nil
}

func (s *WorkerService) Get(ctx context.Context, id primitive.ObjectID) (*Worker, error) {
	worker, err := s.workers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, apperr.NotFound("Worker does not exist")
	}
	return worker, nil
}

func (s *WorkerService) List(ctx context.Context, params ListParams) ([]*Worker, int64, error) {
	return s.workers.List(ctx, params)
}
