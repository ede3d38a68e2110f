package domain

import (
	"time"
)

// User roles. Every account is either a buyer or a seller; the role only
// affects presentation, not permissions.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// User represents a registered student account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	University   string    `json:"university"`
	Campus       string    `json:"campus,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	ProfileImage string    `json:"profileImage,omitempty"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicProfile is the profile bundle returned by the user profile endpoint.
// The password hash never leaves the domain type thanks to the "-" tag.
type PublicProfile struct {
	User          *User     `json:"user"`
	Items         []*Item   `json:"items"`
	Reviews       []*Review `json:"reviews"`
	AverageRating float64   `json:"averageRating"`
	RatingCount   int       `json:"ratingCount"`
	CanReview     bool      `json:"canReview"`
}
