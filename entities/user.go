package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Email        string    `gorm:"size:254;uniqueIndex" json:"email"`
	Username     string    `gorm:"size:150;uniqueIndex" json:"username"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatar,omitempty"`

	Recipes []*Recipe `gorm:"foreignKey:AuthorID"`
	Timestamp
}

// Subscription is a directed follower edge between two users. The pair is
// unique and a user may not follow themselves (enforced in the database).
type Subscription struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	FollowerID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_subscriptions_pair" json:"follower_id"`
	AuthorID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_subscriptions_pair;check:chk_subscriptions_not_self,follower_id <> author_id" json:"author_id"`
	CreatedAt  time.Time `gorm:"type:timestamp" json:"created_at"`

	Follower *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Author   *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}
