package main

import "triviashow/internal/types"

type (
	APIClue     = types.APIClue
	APICategory = types.APICategory
	Category    = types.Category
	Clue        = types.Clue
)

// LoadStatus tracks where the board is in its one-shot category load.
type LoadStatus string

const (
	StatusLoading LoadStatus = "loading"
	StatusReady   LoadStatus = "ready"
	StatusFailed  LoadStatus = "failed"
)

// View is the render-ready display state of one board.
type View struct {
	Status  LoadStatus      `json:"status"`
	Error   string          `json:"error,omitempty"`
	Score   string          `json:"score"`
	Columns []Column        `json:"columns"`
	Used    map[string]bool `json:"-"`
	Modal   Modal           `json:"modal"`
	Winner  WinnerModal     `json:"winner"`
}

// Column is one rendered category.
type Column struct {
	Title   string   `json:"title"`
	Buttons []Button `json:"buttons"`
}

// Button triggers a clue; Used is a display-only marker.
type Button struct {
	ClueID string `json:"clueId"`
	Value  int    `json:"value"`
	Used   bool   `json:"used"`
}

// Modal is the question/result card.
type Modal struct {
	Visible       bool   `json:"visible"`
	ShowingResult bool   `json:"showingResult"`
	ClueText      string `json:"clueText"`
	AnswerText    string `json:"-"`
	Input         string `json:"input"`
	Success       bool   `json:"success"`
}

// WinnerModal is the two-player final score card.
type WinnerModal struct {
	Visible    bool   `json:"visible"`
	Heading    string `json:"heading"`
	FinalScore string `json:"finalScore"`
}

// SubmitResult reports the outcome of one answer submission.
type SubmitResult struct {
	Correct bool   `json:"correct"`
	Value   int    `json:"value"`
	Score   int    `json:"score"`
	Answer  string `json:"answer"`
}

// Winner is the outcome of comparing two player scores.
type Winner struct {
	Player     string `json:"player"`
	Tie        bool   `json:"tie"`
	Heading    string `json:"heading"`
	FinalScore string `json:"finalScore"`
}

// Event is pushed to websocket subscribers of a session.
type Event struct {
	Type    string `json:"type"`
	Score   int    `json:"score,omitempty"`
	Message string `json:"message,omitempty"`
}
