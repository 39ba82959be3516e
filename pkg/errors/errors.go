package errors

import "errors"

// ErrInvalidArgument the caller sent something the service cannot act on.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrUpstreamUnavailable the section catalog or exam feed could not be reached
// and no earlier copy is available.
var ErrUpstreamUnavailable = errors.New("upstream data unavailable")

// ErrStorageDisabled the operation needs the database but it is not configured.
var ErrStorageDisabled = errors.New("storage is not configured")
