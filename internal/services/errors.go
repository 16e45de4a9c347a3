// Package services defines the business logic of the reward engine: task
// completion with idempotency guarantees, reward dispatch, and faucet claim
// processing. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrTaskNotFound indicates that the requested task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrUserNotFound indicates that the authenticated user has no row in the
	// users table (the auth collaborator has not provisioned it yet).
	ErrUserNotFound = errors.New("user not found")

	// ErrTaskInactive is returned when completing a task that has been
	// deactivated in the catalog.
	ErrTaskInactive = errors.New("task is not active")

	// ErrAccountNotLinked is returned when a social task requires a linked
	// platform account that the user does not have.
	ErrAccountNotLinked = errors.New("social account not linked")

	// ErrNoLoginToday is returned for the daily-login task when no login
	// record exists for today.
	ErrNoLoginToday = errors.New("no login record found for today")

	// ErrLoginAlreadyClaimed is returned when today's login reward has
	// already been claimed. It maps to the duplicate outcome: the reward
	// exists, the attempt is a retry.
	ErrLoginAlreadyClaimed = errors.New("daily reward already claimed")

	// ErrArtifactNotFound is returned when no qualifying external artifact
	// (e.g. a tweet with the required hashtags) could be verified.
	ErrArtifactNotFound = errors.New("no matching artifact found")
)

// isIneligible reports whether err is one of the prerequisite failures that
// map to a benign "ineligible" completion outcome rather than a fault.
func isIneligible(err error) bool {
	return errors.Is(err, ErrTaskInactive) ||
		errors.Is(err, ErrAccountNotLinked) ||
		errors.Is(err, ErrNoLoginToday) ||
		errors.Is(err, ErrArtifactNotFound)
}
