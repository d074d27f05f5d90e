package nlp

import "errors"

// ErrInvalidArgument reports a violated precondition on a pipeline collaborator or config.
var ErrInvalidArgument = errors.New("invalid argument")
