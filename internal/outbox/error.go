package outbox

import "errors"

var (
	ErrFailedSaveEvent    = errors.New("failed to save outbox event")
	ErrFailedFetchEvents  = errors.New("failed to fetch outbox events")
	ErrFailedMarkEvents   = errors.New("failed to mark outbox events")
	ErrFailedPublishEvent = errors.New("failed to publish outbox events")
)
