package catalog

import "errors"

var (
	ErrUnknownItemType = errors.New("unknown item type")
	ErrFailedGetItem   = errors.New("failed to get catalog item")
)
