package domain

import "errors"

var (
	// ErrInvalidArgument is returned when request parameters are missing or malformed
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUpstream is returned when a Steam API request fails at the network or protocol level
	ErrUpstream = errors.New("steam API request failed")

	// ErrNotFound is returned when the requested app is absent or its lookup was unsuccessful
	ErrNotFound = errors.New("not found")

	// ErrInternal is returned for unexpected failures
	ErrInternal = errors.New("internal error")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUserExists is returned when registering an email or username that is already taken
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned when login email or password do not match
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthorized is returned when a bearer token is missing, malformed or expired
	ErrUnauthorized = errors.New("unauthorized")
)
