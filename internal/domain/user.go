package domain

import "time"

// Provider tags as reported on the User record. The tag reflects the most
// recent login method, so an account created via Google and later logged in
// via GitHub carries "GitHub".
const (
	ProviderLocal  = "local"
	ProviderGoogle = "Google"
	ProviderGitHub = "GitHub"
	ProviderKakao  = "Kakao"
	ProviderNaver  = "Naver"
)

const DefaultPhoto = "default.png"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"` // stored lowercased; unique across the store
	Verified  bool      `json:"verified"`
	Provider  string    `json:"provider"`
	Role      string    `json:"role"`
	Password  string    `json:"-"` // non-empty only for local accounts
	Photo     string    `json:"photo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FilteredUser is the response view of a User: everything except the password.
type FilteredUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	Provider  string    `json:"provider"`
	Role      string    `json:"role"`
	Photo     string    `json:"photo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) Filtered() FilteredUser {
	return FilteredUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Verified:  u.Verified,
		Provider:  u.Provider,
		Role:      u.Role,
		Photo:     u.Photo,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
