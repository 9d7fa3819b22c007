package commands

import "errors"

var (
	ErrMeetingNotFound   = errors.New("meeting not found")
	ErrNotCreator        = errors.New("only the meeting creator can change this meeting")
	ErrJoinCodeExhausted = errors.New("could not allocate a unique join code")
)
