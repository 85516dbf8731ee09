package domain

import (
	"fmt"
	"strings"
)

// User is a registered buyer. The repository assigns ID on first save.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     Email
}

func NewUser(firstName, lastName, email string) (User, error) {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return User{}, fmt.Errorf("%w: first name must not be empty", ErrInvalidUser)
	}
	lastName = strings.TrimSpace(lastName)
	if lastName == "" {
		return User{}, fmt.Errorf("%w: last name must not be empty", ErrInvalidUser)
	}
	addr, err := NewEmail(email)
	if err != nil {
		return User{}, err
	}
	return User{FirstName: firstName, LastName: lastName, Email: addr}, nil
}

func (u User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}
