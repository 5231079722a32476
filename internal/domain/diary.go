package domain

import "time"

type DiaryTheme struct {
	ID    string `json:"id" bson:"id"`
	Src   string `json:"src" bson:"src"`
	Label string `json:"label" bson:"label"`
}

// Diary is one private journal entry. Entries are only ever listed for
// their owner.
type Diary struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	UserID    UserID     `json:"userId" bson:"userId"`
	Emotion   string     `json:"emotion" bson:"emotion"`
	Content   string     `json:"content" bson:"content"`
	Theme     DiaryTheme `json:"theme" bson:"theme"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}
