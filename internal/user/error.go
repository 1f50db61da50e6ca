package user

import "errors"

var (
	ErrFailedGetUser = errors.New("failed to get user")
)
