package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserSecure is the projection of a user embedded in payloads that must not
// leak password, role or subscriptions (e.g. an event's creator).
type UserSecure struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Mail      string `json:"mail"`
}

// AuthUser is the user shape returned by login and registration.
type AuthUser struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Mail      string `json:"mail"`
	Role      Role   `json:"role"`
}
