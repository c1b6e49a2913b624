package users

import "time"

// User is the single persistent identity record. HashedPassword is nil
// for accounts created through federated login only; such accounts must
// never pass local password authentication.
type User struct {
	ID             int64
	Email          string
	Name           string
	HashedPassword *string
	FirstName      *string
	LastName       *string
	CreationDate   time.Time
}
