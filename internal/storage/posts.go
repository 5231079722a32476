package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recovery-center/internal/domain"
)

type postDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Title      string             `bson:"title"`
	Content    string             `bson:"content"`
	UserID     string             `bson:"userId"`
	Comments   []domain.Comment   `bson:"comments"`
	MeTooCount int                `bson:"meTooCount"`
	MeTooUsers []string           `bson:"meTooUsers"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

func (d *postDoc) toDomain() domain.Post {
	users := make([]domain.UserID, 0, len(d.MeTooUsers))
	for _, u := range d.MeTooUsers {
		users = append(users, domain.UserID(u))
	}
	comments := d.Comments
	if comments == nil {
		comments = []domain.Comment{}
	}
	return domain.Post{
		ID:         d.ID.Hex(),
		Title:      d.Title,
		Content:    d.Content,
		UserID:     domain.UserID(d.UserID),
		Comments:   comments,
		MeTooCount: d.MeTooCount,
		MeTooUsers: users,
		CreatedAt:  d.CreatedAt,
	}
}

type PostRepo struct {
	coll *mongo.Collection
}

func NewPostRepo(s *Store) *PostRepo {
	return &PostRepo{coll: s.Collection("posts")}
}

// List returns the feed newest first.
func (r *PostRepo) List(ctx context.Context) ([]domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cursor.Close(ctx)

	out := []domain.Post{}
	for cursor.Next(ctx) {
		var doc postDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cursor.Err()
}

func (r *PostRepo) Insert(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := postDoc{
		Title:      p.Title,
		Content:    p.Content,
		UserID:     string(p.UserID),
		Comments:   []domain.Comment{},
		MeTooUsers: []string{},
		CreatedAt:  p.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

func (r *PostRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc postDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	p := doc.toDomain()
	return &p, nil
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostRepo) AddComment(ctx context.Context, id string, c domain.Comment) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$push": bson.M{"comments": c}})
	if err != nil {
		return fmt.Errorf("push comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMeToo records one reaction per account. The filter excludes posts the
// user already reacted to, so the count and the reactor list move together
// in a single update.
func (r *PostRepo) AddMeToo(ctx context.Context, id string, user domain.UserID) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "meTooUsers": bson.M{"$ne": string(user)}},
		bson.M{
			"$push": bson.M{"meTooUsers": string(user)},
			"$inc":  bson.M{"meTooCount": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("push me-too: %w", err)
	}
	if res.MatchedCount == 0 {
		// Either absent or already reacted; tell them apart for the 400/404 split.
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyReacted
	}
	return nil
}
