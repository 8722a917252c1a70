package music

import "errors"

var (
	ErrInvalidHandle  = errors.New("music: voice has no clip")
	ErrEmptyClipSet   = errors.New("music: zone has no clips")
	ErrAlreadyRunning = errors.New("music: controller already running")
)
