package service

import "errors"

var (
	// ErrInvalidCredentials indicates the email is unknown or the password is wrong.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrInactiveUser indicates the account exists but is disabled. Only
	// login checks this flag; token resolution deliberately does not.
	ErrInactiveUser = errors.New("inactive user")
	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("a user with this email already exists")
	// ErrDuplicateTitle is returned when an owner already has an item with that title.
	ErrDuplicateTitle = errors.New("an item with this title already exists")
	// ErrUserNotFound indicates no user row matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrItemNotFound indicates no item row matches the lookup.
	ErrItemNotFound = errors.New("item not found")
	// ErrForbidden indicates the requester is neither the owner nor a superuser.
	ErrForbidden = errors.New("insufficient permission")
	// ErrInternal wraps unexpected persistence failures. The boundary maps
	// it to a generic 500 and never forwards the underlying detail.
	ErrInternal = errors.New("internal error")
)
