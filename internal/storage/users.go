package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"recovery-center/internal/domain"
)

type userDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Email       string             `bson:"email"`
	Password    string             `bson:"password"`
	JoinedGroup string             `bson:"joinedGroup,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:          domain.UserID(d.ID.Hex()),
		Name:        d.Name,
		Email:       d.Email,
		Password:    d.Password,
		JoinedGroup: domain.GroupID(d.JoinedGroup),
		CreatedAt:   d.CreatedAt,
	}
}

type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(s *Store) *UserRepo {
	return &UserRepo{coll: s.Collection("users")}
}

// Create fills in the user's id. A duplicate email maps to ErrEmailTaken
// via the unique index.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := userDoc{
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = domain.UserID(oid.Hex())
	}
	return nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc userDoc
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepo) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc userDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// SetJoinedGroup writes the one-group-per-account pointer; empty clears it.
func (r *UserRepo) SetJoinedGroup(ctx context.Context, id domain.UserID, group domain.GroupID) error {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"joinedGroup": string(group)}}
	if group == "" {
		update = bson.M{"$unset": bson.M{"joinedGroup": ""}}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update user group: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
