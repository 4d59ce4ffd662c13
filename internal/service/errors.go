package service

import "errors"

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrInvalidProfile = errors.New("invalid diet profile")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
)
