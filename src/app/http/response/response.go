// Package response defines the JSON shapes served by the API.
// Failures are always `{"message": "<string>"}`; joke listings are shaped
// differently for authenticated and anonymous callers.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"madjoke/src/core/domain"
)

// Message is the body used for every confirmation and failure response.
type Message struct {
	Message string `json:"message"`
}

// JokeView is a joke as served by the listing endpoints. Likes collapses to
// a count, the author appears by userName and the punchline is masked for
// anonymous callers.
type JokeView struct {
	ID          uuid.UUID `json:"id"`
	Setup       string    `json:"setup"`
	Punchline   string    `json:"punchline"`
	Type        string    `json:"type"`
	Author      string    `json:"author"`
	Likes       int       `json:"likes"`
	Created     time.Time `json:"created"`
	LikedByUser bool      `json:"likedByUser"`
}

// FullJokeView is the unmasked joke shape, likes as the raw ID set.
// Served to owners and by the write endpoints.
type FullJokeView struct {
	ID        uuid.UUID   `json:"id"`
	Setup     string      `json:"setup"`
	Punchline string      `json:"punchline"`
	Type      string      `json:"type"`
	Author    uuid.UUID   `json:"author"`
	Likes     []uuid.UUID `json:"likes"`
	Created   time.Time   `json:"created"`
}

// UserInfo is the public subset of a user's profile.
type UserInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
}

// ProfileView is the normalized profile served by the user endpoints.
// Password hash and internal ID are never included.
type ProfileView struct {
	UserInfo  UserInfo `json:"userInfo"`
	CreatedAt string   `json:"createdAt"`
}

// ShapeJoke renders a joke for the given viewer. Anonymous viewers get the
// masked punchline and never see like membership; authenticated viewers get
// the real punchline and their own like state. The joke set itself is the
// same either way.
func ShapeJoke(j domain.Joke, viewer *domain.User) JokeView {
	view := JokeView{
		ID:      j.ID,
		Setup:   j.Setup,
		Type:    j.Type,
		Author:  j.AuthorName,
		Likes:   len(j.Likes),
		Created: j.Created,
	}
	if viewer != nil {
		view.Punchline = j.Punchline
		view.LikedByUser = j.LikedBy(viewer.ID)
	} else {
		view.Punchline = domain.MaskedPunchline
	}
	return view
}

// ShapeJokes renders a slice of jokes for the given viewer.
func ShapeJokes(jokes []domain.Joke, viewer *domain.User) []JokeView {
	out := make([]JokeView, 0, len(jokes))
	for _, j := range jokes {
		out = append(out, ShapeJoke(j, viewer))
	}
	return out
}

// FullJoke renders the unmasked joke shape.
func FullJoke(j domain.Joke) FullJokeView {
	likes := j.Likes
	if likes == nil {
		likes = []uuid.UUID{}
	}
	return FullJokeView{
		ID:        j.ID,
		Setup:     j.Setup,
		Punchline: j.Punchline,
		Type:      j.Type,
		Author:    j.Author,
		Likes:     likes,
		Created:   j.Created,
	}
}

// FullJokes renders a slice of jokes in the unmasked shape.
func FullJokes(jokes []domain.Joke) []FullJokeView {
	out := make([]FullJokeView, 0, len(jokes))
	for _, j := range jokes {
		out = append(out, FullJoke(j))
	}
	return out
}

// Profile renders the normalized profile view. The creation date keeps the
// historical format: zero-padded month, unpadded day.
func Profile(u *domain.User) ProfileView {
	created := u.CreatedAt
	return ProfileView{
		UserInfo: UserInfo{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			UserName:  u.UserName,
			Email:     u.Email,
		},
		CreatedAt: fmt.Sprintf("%d-%02d-%d", created.Year(), int(created.Month()), created.Day()),
	}
}

// AuthenticationFailed sends the fixed 401 body used by every route that
// requires identity.
func AuthenticationFailed(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, Message{Message: "Authentication failed"})
}

// Fail sends a failure message with the given status.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Message{Message: message})
}

// FromDomainError converts a domain error to an appropriate HTTP response.
// Unauthorized and validation errors carry their literal API message;
// anything else falls back to the operation-specific failure message with
// the historical 500 status.
func FromDomainError(c *gin.Context, err error, fallback string) {
	var domainErr *domain.DomainError
	switch {
	case domain.IsUnauthorized(err):
		if errors.As(err, &domainErr) && domainErr.Message != "" {
			Fail(c, http.StatusUnauthorized, domainErr.Message)
			return
		}
		Fail(c, http.StatusUnauthorized, "Authentication failed")
	case domain.IsValidationError(err):
		if errors.As(err, &domainErr) && domainErr.Message != "" {
			Fail(c, http.StatusInternalServerError, domainErr.Message)
			return
		}
		Fail(c, http.StatusInternalServerError, fallback)
	default:
		Fail(c, http.StatusInternalServerError, fallback)
	}
}
