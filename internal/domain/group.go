package domain

import "time"

type GroupID string

// GroupMember records one account's membership in a support group together
// with the nickname it goes by inside that group.
type GroupMember struct {
	UserID   UserID `json:"userId" bson:"userId"`
	Nickname string `json:"nickname" bson:"nickname"`
}

// SupportGroup is a small peer-support circle with a hard member limit.
type SupportGroup struct {
	ID        GroupID       `json:"id" bson:"_id,omitempty"`
	Name      string        `json:"name" bson:"name"`
	Limit     int           `json:"limit" bson:"limit"`
	Category  string        `json:"category" bson:"category"`
	Desc      string        `json:"desc" bson:"desc"`
	Creator   UserID        `json:"creator" bson:"creator"`
	Members   []GroupMember `json:"members" bson:"members"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
}

func (g *SupportGroup) IsFull() bool {
	return g.Limit > 0 && len(g.Members) >= g.Limit
}

func (g *SupportGroup) HasMember(id UserID) bool {
	for _, m := range g.Members {
		if m.UserID == id {
			return true
		}
	}
	return false
}
