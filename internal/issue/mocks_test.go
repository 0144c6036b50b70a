package issue

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hostelsaathi/internal/apperr"
	"hostelsaathi/internal/worker"
)

type fakeIssues struct {
	issues map[primitive.ObjectID]*Issue
}

func newFakeIssues() *fakeIssues {
	return &fakeIssues{issues: make(map[primitive.ObjectID]*Issue)}
}

func (f *fakeIssues) Create(ctx context.Context, issue *Issue) error {
	clone := *issue
	f.issues[issue.ID] = &clone
	return nil
}

func (f *fakeIssues) FindByID(ctx context.Context, id primitive.ObjectID) (*Issue, error) {
	if issue, ok := f.issues[id]; ok {
		clone := *issue
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeIssues) Update(ctx context.Context, issue *Issue) error {
	if _, ok := f.issues[issue.ID]; !ok {
		return apperr.NotFound("Issue not found")
	}
	clone := *issue
	f.issues[issue.ID] = &clone
	return nil
}

func (f *fakeIssues) List(ctx context.Context, params ListParams) ([]*Issue, int64, error) {
	var matched []*Issue
	for _, issue := range f.issues {
		if params.HostelNumber != nil && issue.HostelNumber != *params.HostelNumber {
			continue
		}
		if params.IsCompleted != nil && issue.IsCompleted != *params.IsCompleted {
			continue
		}
		if params.IsAssigned != nil && issue.IsAssigned != *params.IsAssigned {
			continue
		}
		clone := *issue
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

type fakeWorkers struct {
	workers []*worker.Worker
	created int
}

func (f *fakeWorkers) Create(ctx context.Context, w *worker.Worker) error {
	clone := *w
	f.workers = append(f.workers, &clone)
	f.created++
	return nil
}

func (f *fakeWorkers) FindByID(ctx context.Context, id primitive.ObjectID) (*worker.Worker, error) {
	for _, w := range f.workers {
		if w.ID == id {
			clone := *w
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeWorkers) FindByIdentity(ctx context.Context, fullName, mobileNumber, role string) (*worker.Worker, error) {
	for _, w := range f.workers {
		if w.FullName == fullName && w.MobileNumber == mobileNumber && w.Role == role {
			clone := *w
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeWorkers) List(ctx context.Context, params worker.ListParams) ([]*worker.Worker, int64, error) {
	var matched []*worker.Worker
	for _, w := range f.workers {
		clone := *w
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}
