package domain

import "errors"

// RoleAdmin gates the administrative endpoints. Other roles are free-form:
// they come into existence the first time a registration names them.
const RoleAdmin = "admin"

// User is the user-plus-role projection exposed outside the storage layer.
// The password hash never travels on this type.
type User struct {
	ID       int64  `json:"user_id"`
	Username string `json:"username"`
	RoleName string `json:"role_name"`
}

// Account is the full credential row used for password verification.
// It stays inside the service layer; handlers only ever see User.
type Account struct {
	User
	PasswordHash string `json:"-"`
}

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrRoleNameRequired   = errors.New("role name is required")
	ErrUserExists         = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)
