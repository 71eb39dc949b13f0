package main

import "time"

// Board configuration constants
const (
	CluesPerCategory   = 5               // Maximum clues drawn per category
	ClueValueStep      = 100             // Clue value = (position + 1) * ClueValueStep
	ResultDisplayDelay = 1 * time.Second // How long the result card stays up
)

// DefaultCategoryIDs are used when no category ids are configured.
var DefaultCategoryIDs = []int{1892, 4483, 88, 218}

// DefaultAPIURL is the trivia category endpoint; ?id=N is appended per category.
const DefaultAPIURL = "https://jservice.io/api/category"

// Event type constants
const (
	EventBoardLoaded    = "board_loaded"
	EventLoadFailed     = "load_failed"
	EventModalDismissed = "modal_dismissed"
	EventScoreChanged   = "score_changed"
)

// Session configuration constants
const (
	SessionCookieName = "session_id"
)

// Route constants
const (
	RouteHome        = "/"
	RouteBoard       = "/board"
	RouteBoardSelect = "/board/select"
	RouteAnswer      = "/answer"
	RouteReload      = "/reload"
	RouteRestart     = "/restart"
	RouteNewGame     = "/new-game"
	RouteWinner      = "/winner"
	RouteEvents      = "/ws"
	RouteQR          = "/qr"
	RouteHealthz     = "/healthz"
	RouteAPIBoard    = "/api/v1/board"
)

// Error message constants
const (
	ErrorNoClueSelected = "No clue is selected."
	ErrorUnknownClue    = "That clue is not on the board."
	ErrorBoardNotReady  = "The board has not finished loading."
	ErrorLoadInProgress = "Categories are already loading."
	ErrorInvalidScore   = "Scores must be whole numbers."
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)

type contextKey string
