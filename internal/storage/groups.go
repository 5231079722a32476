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

type groupMemberDoc struct {
	UserID   string `bson:"userId"`
	Nickname string `bson:"nickname"`
}

type groupDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Limit     int                `bson:"limit"`
	Category  string             `bson:"category"`
	Desc      string             `bson:"desc"`
	Creator   string             `bson:"creator"`
	Members   []groupMemberDoc   `bson:"members"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *groupDoc) toDomain() domain.SupportGroup {
	members := make([]domain.GroupMember, 0, len(d.Members))
	for _, m := range d.Members {
		members = append(members, domain.GroupMember{UserID: domain.UserID(m.UserID), Nickname: m.Nickname})
	}
	return domain.SupportGroup{
		ID:        domain.GroupID(d.ID.Hex()),
		Name:      d.Name,
		Limit:     d.Limit,
		Category:  d.Category,
		Desc:      d.Desc,
		Creator:   domain.UserID(d.Creator),
		Members:   members,
		CreatedAt: d.CreatedAt,
	}
}

type GroupRepo struct {
	coll *mongo.Collection
}

func NewGroupRepo(s *Store) *GroupRepo {
	return &GroupRepo{coll: s.Collection("groups")}
}

func (r *GroupRepo) List(ctx context.Context) ([]domain.SupportGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find groups: %w", err)
	}
	defer cursor.Close(ctx)

	out := []domain.SupportGroup{}
	for cursor.Next(ctx) {
		var doc groupDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode group: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cursor.Err()
}

func (r *GroupRepo) Insert(ctx context.Context, g *domain.SupportGroup) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	members := make([]groupMemberDoc, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, groupMemberDoc{UserID: string(m.UserID), Nickname: m.Nickname})
	}
	doc := groupDoc{
		Name:      g.Name,
		Limit:     g.Limit,
		Category:  g.Category,
		Desc:      g.Desc,
		Creator:   string(g.Creator),
		Members:   members,
		CreatedAt: g.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		g.ID = domain.GroupID(oid.Hex())
	}
	return nil
}

func (r *GroupRepo) FindByID(ctx context.Context, id domain.GroupID) (*domain.SupportGroup, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc groupDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find group: %w", err)
	}
	g := doc.toDomain()
	return &g, nil
}

func (r *GroupRepo) Delete(ctx context.Context, id domain.GroupID) error {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMember is idempotent per user: the filter skips groups that already
// list them.
func (r *GroupRepo) AddMember(ctx context.Context, id domain.GroupID, m domain.GroupMember) error {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "members.userId": bson.M{"$ne": string(m.UserID)}},
		bson.M{"$push": bson.M{"members": groupMemberDoc{UserID: string(m.UserID), Nickname: m.Nickname}}},
	)
	if err != nil {
		return fmt.Errorf("push member: %w", err)
	}
	return nil
}

func (r *GroupRepo) RemoveMember(ctx context.Context, id domain.GroupID, user domain.UserID) error {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"members": bson.M{"userId": string(user)}}},
	)
	if err != nil {
		return fmt.Errorf("pull member: %w", err)
	}
	return nil
}
