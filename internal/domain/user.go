package domain

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// User roles. Freelancers are stored with the historical role name "user".
const (
	RoleAdmin      = "admin"
	RoleHirer      = "hirer"
	RoleFreelancer = "user"
)

// Reputation badge tiers derived from the badge calculator.
const (
	BadgeNone   = ""
	BadgeBronze = "bronze"
	BadgeSilver = "silver"
	BadgeGold   = "gold"
)

type User struct {
	ID                string        `json:"id"`
	FirstName         string        `json:"first_name"`
	LastName          string        `json:"last_name"`
	Email             string        `json:"email"`
	Role              string        `json:"role"`
	Skills            []string      `json:"skills,omitempty"`
	Education         []string      `json:"education,omitempty"`
	Interests         []string      `json:"interests,omitempty"`
	Experience        []string      `json:"experience,omitempty"`
	Linkedin          *string       `json:"linkedin,omitempty"`
	Github            *string       `json:"github,omitempty"`
	ProfilePicture    *string       `json:"profile_picture,omitempty"`
	IsProfileComplete bool          `json:"is_profile_complete"`
	Badge             string        `json:"badge"`
	KhaltiID          *string       `json:"khalti_id,omitempty"`
	GoogleTokens      *oauth2.Token `json:"-"` // delegated calendar credential bundle, never serialized out
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// FullName joins first and last name for notification and calendar copy.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserProfile is the read model returned by profile endpoints: the user with
// a freshly recalculated badge plus the reviews written about them.
type UserProfile struct {
	User    *User    `json:"user"`
	Reviews []Review `json:"reviews"`
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateBadge(ctx context.Context, id string, badge string) error
	UpdateCalendarTokens(ctx context.Context, id string, tokens *oauth2.Token) error
	UpdateKhaltiID(ctx context.Context, id string, khaltiID string) error
}

type UserUsecase interface {
	// GetProfile recalculates the subject's badge before returning the profile.
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	// SaveCalendarCredential persists the token bundle obtained from OAuth consent.
	SaveCalendarCredential(ctx context.Context, userID string, tokens *oauth2.Token) error
	SaveKhaltiID(ctx context.Context, userID string, khaltiID string) error
}

// BadgeUsecase recomputes a user's reputation tier from current data.
// It is re-run on demand (after review create/delete, on profile fetch)
// rather than incrementally maintained.
type BadgeUsecase interface {
	Recalculate(ctx context.Context, userID string) (string, error)
}
