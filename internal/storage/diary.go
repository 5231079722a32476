package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recovery-center/internal/domain"
)

type diaryDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Emotion   string             `bson:"emotion"`
	Content   string             `bson:"content"`
	Theme     domain.DiaryTheme  `bson:"theme"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *diaryDoc) toDomain() domain.Diary {
	return domain.Diary{
		ID:        d.ID.Hex(),
		UserID:    domain.UserID(d.UserID),
		Emotion:   d.Emotion,
		Content:   d.Content,
		Theme:     d.Theme,
		CreatedAt: d.CreatedAt,
	}
}

type DiaryRepo struct {
	coll *mongo.Collection
}

func NewDiaryRepo(s *Store) *DiaryRepo {
	return &DiaryRepo{coll: s.Collection("diaries")}
}

func (r *DiaryRepo) ListByUser(ctx context.Context, user domain.UserID) ([]domain.Diary, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": string(user)}, opts)
	if err != nil {
		return nil, fmt.Errorf("find diaries: %w", err)
	}
	defer cursor.Close(ctx)

	out := []domain.Diary{}
	for cursor.Next(ctx) {
		var doc diaryDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode diary: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cursor.Err()
}

func (r *DiaryRepo) Insert(ctx context.Context, d *domain.Diary) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := diaryDoc{
		UserID:    string(d.UserID),
		Emotion:   d.Emotion,
		Content:   d.Content,
		Theme:     d.Theme,
		CreatedAt: d.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert diary: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid.Hex()
	}
	return nil
}

// Delete is scoped to the owner; deleting someone else's entry reads as
// not-found.
func (r *DiaryRepo) Delete(ctx context.Context, id string, user domain.UserID) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "userId": string(user)})
	if err != nil {
		return fmt.Errorf("delete diary: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
