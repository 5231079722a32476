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

type messageDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	RoomID    string             `bson:"roomId"`
	Nickname  string             `bson:"nickname"`
	Text      string             `bson:"text"`
	Time      string             `bson:"time"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *messageDoc) toDomain() domain.ChatMessage {
	return domain.ChatMessage{
		ID:        d.ID.Hex(),
		RoomID:    domain.RoomID(d.RoomID),
		Nickname:  d.Nickname,
		Text:      d.Text,
		Time:      d.Time,
		CreatedAt: d.CreatedAt,
	}
}

// MessageRepo implements the chat relay's MessageStore port.
type MessageRepo struct {
	coll *mongo.Collection
}

func NewMessageRepo(s *Store) *MessageRepo {
	return &MessageRepo{coll: s.Collection("messages")}
}

func (r *MessageRepo) Append(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := messageDoc{
		RoomID:    string(msg.RoomID),
		Nickname:  msg.Nickname,
		Text:      msg.Text,
		Time:      msg.Time,
		CreatedAt: msg.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	out := *msg
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		out.ID = oid.Hex()
	}
	return &out, nil
}

// History returns all of the room's messages in insertion order (ascending
// _id), which is the replay order the relay promises.
func (r *MessageRepo) History(ctx context.Context, roomID domain.RoomID) ([]domain.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"roomId": string(roomID)}, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.ChatMessage
	for cursor.Next(ctx) {
		var doc messageDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return out, nil
}
