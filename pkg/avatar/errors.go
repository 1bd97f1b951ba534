package avatar

import "errors"

var (
	// ErrUnsupportedType is returned when a selected file is not a JPEG or PNG.
	ErrUnsupportedType = errors.New("avatar: unsupported file type")
	// ErrFileTooLarge is returned when a selected file exceeds Config.MaxFileSize.
	ErrFileTooLarge = errors.New("avatar: file too large")
	// ErrDecodeFailed wraps image decoding failures.
	ErrDecodeFailed = errors.New("avatar: decode failed")
	// ErrNoBitmap is returned by export when nothing has been loaded.
	ErrNoBitmap = errors.New("avatar: no bitmap loaded")
	// ErrMissingCollaborator is returned by New when a required surface or
	// preview sink was not supplied.
	ErrMissingCollaborator = errors.New("avatar: missing collaborator")
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("avatar: invalid config")
	// ErrLoopClosed is returned by Loop.Next after Close.
	ErrLoopClosed = errors.New("avatar: loop closed")
	// ErrUnknownCommand is returned by Controller.Execute.
	ErrUnknownCommand = errors.New("avatar: unknown command")
)
