package account

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hostelsaathi/internal/apperr"
	"hostelsaathi/internal/config"
)

// Accounts describes the persistence operations the auth subsystem needs.
// The mongo repository implements it; tests use an in-memory fake.
type Accounts interface {
	Create(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Account, error)
	FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*Account, error)
	FindByUsername(ctx context.Context, username string) (*Account, error)
	// UpdateRefreshToken overwrites the stored refresh token; an empty
	// token clears the field (logout / forced session end).
	UpdateRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	List(ctx context.Context, role string, page, pageSize int) ([]*Account, int64, error)
}

type AccountRepository struct {
	collection *mongo.Collection
}

func NewAccountStore(db *mongo.Database) Accounts {
	return &AccountRepository{collection: db.Collection("accounts")}
}

// EnsureIndexes creates the unique identity indexes on the accounts
// collection. Invoked once at startup.
func EnsureIndexes(db *mongo.Database) {
	collection := db.Collection("accounts")
	config.EnsureUniqueIndex(collection, "registration_number")
	config.EnsureUniqueIndex(collection, "username")
	config.EnsureUniqueIndex(collection, "mobile_number")
}

func (r *AccountRepository) Create(ctx context.Context, account *Account) error {
	_, err := r.collection.InsertOne(ctx, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("User already exists")
		}
		return err
	}
	return nil
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*Account, error) {
	var account Account
	err := r.collection.FindOne(ctx, filter).Decode(&account)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AccountRepository) FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*Account, error) {
	return r.findOne(ctx, bson.M{"registration_number": registrationNumber})
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *AccountRepository) UpdateRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	update := bson.M{"$set": bson.M{"refresh_token": token, "updated_at": time.Now()}}
	if token == "" {
		update = bson.M{
			"$unset": bson.M{"refresh_token": 1},
			"$set":   bson.M{"updated_at": time.Now()},
		}
	}
	res, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("User does not exist")
	}
	return nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	update := bson.M{"$set": bson.M{"password_hash": passwordHash, "updated_at": time.Now()}}
	res, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("User does not exist")
	}
	return nil
}

func (r *AccountRepository) List(ctx context.Context, role string, page, pageSize int) ([]*Account, int64, error) {
	filter := bson.M{"user_role": role}

	totalItems, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var accounts []*Account
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, 0, err
	}
	return accounts, totalItems, nil
}
