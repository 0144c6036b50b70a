package worker

import (
	"context"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"hostelsaathi/internal/apperr"
)

type fakeWorkers struct {
	workers []*Worker
	created int
}

func (f *fakeWorkers) Create(ctx context.Context, worker *Worker) error {
	clone := *worker
	f.workers = append(f.workers, &clone)
	f.created++
	return nil
}

func (f *fakeWorkers) FindByID(ctx context.Context, id primitive.ObjectID) (*Worker, error) {
	for _, worker := range f.workers {
		if worker.ID == id {
			clone := *worker
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeWorkers) FindByIdentity(ctx context.Context, fullName, mobileNumber, role string) (*Worker, error) {
	for _, worker := range f.workers {
		if worker.FullName == fullName && worker.MobileNumber == mobileNumber && worker.Role == role {
			clone := *worker
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeWorkers) List(ctx context.Context, params ListParams) ([]*Worker, int64, error) {
	var matched []*Worker
	for _, worker := range f.workers {
		if params.Role != "" && worker.Role != params.Role {
			continue
		}
		clone := *worker
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

func TestGetOrCreate(t *testing.T) {
	store := &fakeWorkers{}
	svc := NewWorkerService(store, zap.NewNop())

	first, err := svc.GetOrCreate(context.Background(), "Shyam Lal", "9000000001", "plumber")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if first.UserRole != "worker" {
		t.Errorf("unexpected user role: %s", first.UserRole)
	}

	// The exact same triple must reuse the record.
	again, err := svc.GetOrCreate(context.Background(), "Shyam Lal", "9000000001", "plumber")
	if err != nil {
		t.Fatalf("GetOrCreate again: %v", err)
	}
	if again.ID != first.ID {
		t.Fatal("identical identity must resolve to the same worker")
	}
	if store.created != 1 {
		t.Fatalf("expected 1 create, got %d", store.created)
	}

	// Same name and mobile but a different trade is a different worker.
	other, err := svc.GetOrCreate(context.Background(), "Shyam Lal", "9000000001", "electrician")
	if err != nil {
		t.Fatalf("GetOrCreate other role: %v", err)
	}
	if other.ID == first.ID {
		t.Fatal("a different role must create a distinct worker")
	}
	if store.created != 2 {
		t.Fatalf("expected 2 creates, got %d", store.created)
	}
}

func TestGetUnknownWorker(t *testing.T) {
	svc := NewWorkerService(&fakeWorkers{}, zap.NewNop())
	_, err := svc.Get(context.Background(), primitive.NewObjectID())
	if apperr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}
