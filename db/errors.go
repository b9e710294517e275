package db

import "fmt"

//ErrNotFound is returned from a db function when the post (or board, or
// thread) it was asked to operate on does not exist.
type ErrNotFound struct {
	message string
}

//NewErrNotFound makes a new ErrNotFound object... works a lot like fmt.Errorf
func NewErrNotFound(format string, args ...interface{}) error {
	return ErrNotFound{
		message: fmt.Sprintf(format, args...),
	}
}

func (e ErrNotFound) Error() string {
	return e.message
}

func IsNotFound(err error) bool {
	_, ok := err.(ErrNotFound)
	return ok
}

// ErrDenied is returned when the password given does not unlock a post.
type ErrDenied struct {
	message string
}

func NewErrDenied(format string, args ...interface{}) error {
	return ErrDenied{
		message: fmt.Sprintf(format, args...),
	}
}

func (e ErrDenied) Error() string {
	return e.message
}

func IsDenied(err error) bool {
	_, ok := err.(ErrDenied)
	return ok
}
