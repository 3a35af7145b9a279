package domain

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Username and password limits.
const (
	MaxUsernameLength = 150
	MinPasswordLength = 12
	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)

// Common validation errors
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrUsernameTooLong  = errors.New("username is too long")
	ErrInvalidUsername  = errors.New("username contains invalid characters")
	ErrPasswordTooShort = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword    = errors.New("password cannot be empty")
)

// User represents a registered account. Only the bcrypt hash of the password
// is ever persisted.
type User struct {
	ID             uuid.UUID
	Username       string
	Password       string // Plaintext password, used temporarily during registration
	HashedPassword string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUser creates a new User with the given username and password.
// It generates a new UUID for the user ID and sets the creation/update timestamps.
// Returns an error if validation fails.
//
// The caller is responsible for hashing the password before storing the user.
func NewUser(username, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(username),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	var errs []error

	if u.ID == uuid.Nil {
		errs = append(errs, NewValidationError("id", "This field is required.", ErrEmptyUserID))
	}
	if err := ValidateUsername(u.Username); err != nil {
		errs = append(errs, err)
	}

	if u.Password != "" {
		if err := ValidatePassword(u.Password); err != nil {
			errs = append(errs, err)
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the store carry only the hash.
		errs = append(errs, NewValidationError("password", "This field may not be blank.", ErrEmptyPassword))
	}

	return errors.Join(errs...)
}

// ValidateUsername accepts 1 to 150 letters, digits and @ . + - _ characters.
func ValidateUsername(username string) error {
	if username == "" {
		return NewValidationError("username", "This field may not be blank.", ErrEmptyUsername)
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return NewValidationError("username",
			"Ensure this field has no more than 150 characters.", ErrUsernameTooLong)
	}
	for _, r := range username {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("@.+-_", r) {
			continue
		}
		return NewValidationError("username",
			"Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.",
			ErrInvalidUsername)
	}
	return nil
}

// ValidatePassword enforces the password length policy. Blankness and the
// minimum length are judged on the password without surrounding whitespace;
// the password itself is kept as given.
func ValidatePassword(password string) error {
	trimmed := strings.TrimSpace(password)
	switch {
	case trimmed == "":
		return NewValidationError("password", "This field may not be blank.", ErrEmptyPassword)
	case utf8.RuneCountInString(trimmed) < MinPasswordLength:
		return NewValidationError("password",
			"Ensure this field has at least 12 characters.", ErrPasswordTooShort)
	case len(password) > MaxPasswordLength:
		return NewValidationError("password",
			"Ensure this field has no more than 72 bytes.", ErrPasswordTooLong)
	}
	return nil
}
