package model

// User is a back-office account as listed by the backend.
type User struct {
	UserID       int64  `json:"userId"`
	LoginID      string `json:"loginId"`
	Nickname     string `json:"nickname"`
	Role         string `json:"role"`
	IsActive     bool   `json:"isActive"`
	IsFirstLogin bool   `json:"isFirstLogin"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// UserFilter narrows a user listing. Nil pointers and empty strings mean
// "no filter" for that field.
type UserFilter struct {
	UserID       int64
	LoginID      string
	Nickname     string
	Role         string
	IsActive     *bool
	IsFirstLogin *bool
}

// CreateUserRequest is the body for creating an account.
type CreateUserRequest struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// UpdateUserRequest is the body for updating an account. Nil fields are left
// unchanged by the backend.
type UpdateUserRequest struct {
	UserID   int64   `json:"userId"`
	Nickname *string `json:"nickname,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}
