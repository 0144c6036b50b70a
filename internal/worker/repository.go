package worker

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Workers is the persistence surface for worker records.
type Workers interface {
	Create(ctx context.Context, worker *Worker) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Worker, error)
	// FindByIdentity matches on the full natural key. A clash on two of
	// the three fields with a different third is a different worker.
	FindByIdentity(ctx context.Context, fullName, mobileNumber, role string) (*Worker, error)
	List(ctx context.Context, params ListParams) ([]*Worker, int64, error)
}

type WorkerRepository struct {
	collection *mongo.Collection
}

func NewWorkerStore(db *mongo.Database) Workers {
	return &WorkerRepository{collection: db.Collection("workers")}
}

func (r *WorkerRepository) Create(ctx context.Context, worker *Worker) error {
	_, err := r.collection.InsertOne(ctx, worker)
	return err
}

func (r *WorkerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Worker, error) {
	var worker Worker
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&worker)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepository) FindByIdentity(ctx context.Context, fullName, mobileNumber, role string) (*Worker, error) {
	filter := bson.M{"full_name": fullName, "mobile_number": mobileNumber, "role": role}
	var worker Worker
	err := r.collection.FindOne(ctx, filter).Decode(&worker)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepository) List(ctx context.Context, params ListParams) ([]*Worker, int64, error) {
	filter := bson.M{}
	if params.Role != "" {
		filter["role"] = params.Role
	}
	if params.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"full_name": primitive.Regex{Pattern: params.Search, Options: "i"}},
		}
	}

	totalItems, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((params.Page - 1) * params.PageSize)).
		SetLimit(int64(params.PageSize))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var workers []*Worker
	if err := cursor.All(ctx, &workers); err != nil {
		return nil, 0, err
	}
	return workers, totalItems, nil
}
