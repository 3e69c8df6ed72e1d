package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// AnonymousName is attributed to a post when neither an explicit name nor
// a profile field is available.
const AnonymousName = "Anonymous"

// Post is a titled text note owned by a single user. All posts are
// publicly readable; only the owner may change or remove one.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title" validate:"required"`
	Content   string             `bson:"content" json:"content" validate:"required"`
	UserID    string             `bson:"userId" json:"userId" validate:"required"`
	UserName  string             `bson:"userName" json:"userName" validate:"required"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// User is a registered account held by the local identity provider.
type User struct {
	ID           string    `json:"id" validate:"required"`
	Username     string    `json:"username" validate:"required,min=3,max=50"`
	FirstName    string    `json:"firstName"`
	Email        string    `json:"email" validate:"omitempty,email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is an opaque login token with an expiry. The token value is the
// only thing the client ever sees.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Identity is the authenticated caller as seen by the post layer: the
// stable user id plus the profile fields that feed display-name
// resolution. A nil *Identity means the request is unauthenticated.
type Identity struct {
	ID        string
	FirstName string
	Email     string
}

// DisplayName resolves the name attributed to a post. An explicit name
// wins, then the profile first name, then the email address.
func (id Identity) DisplayName(explicit string) string {
	for _, candidate := range []string{explicit, id.FirstName, id.Email} {
		if candidate != "" {
			return candidate
		}
	}
	return AnonymousName
}
