package issue

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hostelsaathi/internal/apperr"
)

// Issues is the persistence surface for issue records. Update writes the
// whole document in a single atomic replace; concurrent updates are
// last-writer-wins.
type Issues interface {
	Create(ctx context.Context, issue *Issue) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Issue, error)
	Update(ctx context.Context, issue *Issue) error
	List(ctx context.Context, params ListParams) ([]*Issue, int64, error)
}

type IssueRepository struct {
	collection *mongo.Collection
}

func NewIssueStore(db *mongo.Database) Issues {
	return &IssueRepository{collection: db.Collection("issues")}
}

func (r *IssueRepository) Create(ctx context.Context, issue *Issue) error {
	_, err := r.collection.InsertOne(ctx, issue)
	return err
}

func (r *IssueRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Issue, error) {
	var issue Issue
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &issue, nil
}

func (r *IssueRepository) Update(ctx context.Context, issue *Issue) error {
	filter := bson.M{"_id": issue.ID}
	update := bson.M{"$set": issue}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Issue not found")
	}
	return nil
}

func (r *IssueRepository) List(ctx context.Context, params ListParams) ([]*Issue, int64, error) {
	filter := bson.M{}
	if params.HostelNumber != nil {
		filter["hostel_number"] = *params.HostelNumber
	}
	if params.IsCompleted != nil {
		filter["is_completed"] = *params.IsCompleted
	}
	if params.IsAssigned != nil {
		filter["is_assigned"] = *params.IsAssigned
	}
	if params.Search != "" {
		regex := primitive.Regex{Pattern: params.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
			bson.M{"tags": regex},
		}
	}

	totalItems, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(sortBy(params.Sort)).
		SetSkip(int64((params.Page - 1) * params.PageSize)).
		SetLimit(int64(params.PageSize))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var issues []*Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, 0, err
	}
	return issues, totalItems, nil
}

// sortBy selects the descending sort key, defaulting to creation time.
func sortBy(sort string) bson.D {
	switch sort {
	case "dateAssigned":
		return bson.D{{Key: "date_assigned", Value: -1}}
	case "dateCompleted":
		return bson.D{{Key: "date_completed", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}
