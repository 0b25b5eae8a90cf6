package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")

	ErrInvalidRequest  = errors.New("invalid request body")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrExternal marks failures of outside collaborators (metadata lookup,
	// notification delivery). Callers recover locally instead of retrying.
	ErrExternal = errors.New("external service failure")
)

type ProblemAlreadyExistsError struct{ LeetcodeNumber int }

func (e *ProblemAlreadyExistsError) Error() string {
	return fmt.Sprintf("problem #%d is already in the review list", e.LeetcodeNumber)
}
func (e *ProblemAlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

type UserAlreadyExistsError struct{ Email string }

func (e *UserAlreadyExistsError) Error() string {
	return fmt.Sprintf("user with email '%s' already exists", e.Email)
}
func (e *UserAlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }
