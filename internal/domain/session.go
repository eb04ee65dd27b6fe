package domain

// AuthSession pairs the authenticated user with its bearer token.
// It is derived state: both halves live in durable storage and the
// session only counts as authenticated when both are present.
type AuthSession struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

func (s AuthSession) IsAuthenticated() bool {
	return s.Token != "" && s.User.ID != 0
}
