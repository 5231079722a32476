package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type verificationDoc struct {
	Email     string    `bson:"email"`
	Code      string    `bson:"code"`
	Verified  bool      `bson:"verified"`
	CreatedAt time.Time `bson:"createdAt"`
}

// VerificationRepo stores short-lived email verification codes. Documents
// expire through the TTL index on createdAt.
type VerificationRepo struct {
	coll *mongo.Collection
}

func NewVerificationRepo(s *Store) *VerificationRepo {
	return &VerificationRepo{coll: s.Collection("verifications")}
}

// SaveCode replaces any pending code for the email, resetting the TTL.
func (r *VerificationRepo) SaveCode(ctx context.Context, email, code string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := verificationDoc{Email: email, Code: code, CreatedAt: time.Now()}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"email": email}, doc, opts); err != nil {
		return fmt.Errorf("save verification code: %w", err)
	}
	return nil
}

// Confirm flips the record to verified when the code matches. A miss is
// reported as ErrNotFound (wrong code or expired).
func (r *VerificationRepo) Confirm(ctx context.Context, email, code string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": email, "code": code},
		bson.M{"$set": bson.M{"verified": true}},
	)
	if err != nil {
		return fmt.Errorf("confirm verification: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *VerificationRepo) IsVerified(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc verificationDoc
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find verification: %w", err)
	}
	return doc.Verified, nil
}
