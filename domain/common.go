package domain

import "errors"

const (
	DefaultPage     = 1
	DefaultPageSize = 6
)

var (
	MessageFailedBodyRequest  = "failed to parse request body"
	MessageFailedGetToken     = "failed to get token"
	MessageFailedTokenInvalid = "failed to token invalid"

	ErrParseUUID              = errors.New("failed to parse UUID")
	ErrTokenNotFound          = errors.New("failed to token not found")
	ErrTokenInvalid           = errors.New("token invalid")
	ErrTokenExpired           = errors.New("token expired")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidImageEncoding   = errors.New("invalid image encoding")
)
