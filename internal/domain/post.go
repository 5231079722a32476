package domain

import "time"

// Comment is embedded in its post; replies nest one level deep.
type Comment struct {
	Username string  `json:"username" bson:"username"`
	Content  string  `json:"content" bson:"content"`
	Replies  []Reply `json:"replies" bson:"replies"`
}

type Reply struct {
	Username string `json:"username" bson:"username"`
	Content  string `json:"content" bson:"content"`
}

// Post is one entry of the public "Me Too" feed.
type Post struct {
	ID       string    `json:"id" bson:"_id,omitempty"`
	Title    string    `json:"title" bson:"title"`
	Content  string    `json:"content" bson:"content"`
	UserID   UserID    `json:"userId" bson:"userId"`
	Comments []Comment `json:"comments" bson:"comments"`

	// MeTooCount is derived from MeTooUsers; one reaction per account.
	MeTooCount int      `json:"meTooCount" bson:"meTooCount"`
	MeTooUsers []UserID `json:"meTooUsers" bson:"meTooUsers"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
