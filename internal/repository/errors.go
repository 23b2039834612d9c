// Package repository defines the persistence contracts and their MySQL
// implementations.  The sentinel errors below let handlers translate
// store failures into HTTP statuses without inspecting SQL details.
package repository

import "errors"

// ErrNotFound is returned when a record does not exist or is owned by
// a different user.  The two cases are deliberately indistinguishable
// so that handlers never leak the existence of another user's data.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned by UserStore.Create when the normalized
// email already has an account.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when an operation cannot proceed because of
// the record's current state, such as marking an already-confirmed
// reservation as paid.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInvalidTransition is returned by ReservationStore.UpdateStatus
// when the requested status is not reachable from the current one.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrTokenUsed is returned when a quick token has already been
// exchanged.  Quick tokens authenticate at most once.
var ErrTokenUsed = errors.New("token already used")

// ErrTokenExpired is returned when a quick token's expiry has passed.
var ErrTokenExpired = errors.New("token expired")
