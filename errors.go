package main

import (
	"errors"
	"fmt"
)

var (
	ErrNoClueSelected = errors.New(ErrorNoClueSelected)
	ErrUnknownClue    = errors.New(ErrorUnknownClue)
	ErrBoardNotReady  = errors.New(ErrorBoardNotReady)
	ErrLoadInProgress = errors.New(ErrorLoadInProgress)
)

// APIStatusError is returned when the trivia endpoint answers with a non-2xx status.
type APIStatusError struct {
	CategoryID int
	StatusCode int
}

func (e *APIStatusError) Error() string {
	return fmt.Sprintf("category %d: unexpected status %d", e.CategoryID, e.StatusCode)
}
