package main

import (
	"context"
	"maps"
	"slices"
	"strconv"
	"sync"
	"time"
)

// GameOptions configures a Game. Zero values fall back to defaults.
type GameOptions struct {
	CategoryIDs []int
	ResultDelay time.Duration
	Intn        func(n int) int
	Notify      func(Event)
}

// Game is the controller for one trivia board: it loads categories, tracks
// the current clue and score, and drives the display state in View.
type Game struct {
	mu sync.Mutex

	fetcher     CategoryFetcher
	categoryIDs []int
	resultDelay time.Duration
	intn        func(n int) int
	notify      func(Event)

	categories []Category
	clues      map[string]Clue
	columns    []Column
	dispatch   map[string]func() error

	current *Clue
	score   int

	view    View
	loading chan struct{}

	dismissTimer *time.Timer
	dismissGen   uint64
}

// NewGame constructs a controller that loads its categories through fetcher.
func NewGame(fetcher CategoryFetcher, opts GameOptions) *Game {
	g := &Game{
		fetcher:     fetcher,
		categoryIDs: opts.CategoryIDs,
		resultDelay: opts.ResultDelay,
		intn:        opts.Intn,
		notify:      opts.Notify,
		clues:       map[string]Clue{},
		dispatch:    map[string]func() error{},
	}
	if len(g.categoryIDs) == 0 {
		g.categoryIDs = slices.Clone(DefaultCategoryIDs)
	}
	if g.resultDelay <= 0 {
		g.resultDelay = ResultDisplayDelay
	}
	if g.notify == nil {
		g.notify = func(Event) {}
	}
	g.view = View{Status: StatusLoading, Used: map[string]bool{}}
	return g
}

// Initialize resets the displayed score and starts loading categories in the
// background. The returned channel is closed when the load settles.
func (g *Game) Initialize(ctx context.Context) <-chan struct{} {
	g.mu.Lock()
	g.updateScoreLocked(0)
	done := g.beginLoadLocked()
	g.mu.Unlock()

	go g.runLoad(context.WithoutCancel(ctx), done)
	return done
}

// Reload retries a failed category load.
func (g *Game) Reload(ctx context.Context) (<-chan struct{}, error) {
	g.mu.Lock()
	switch {
	case g.loading != nil:
		g.mu.Unlock()
		return nil, ErrLoadInProgress
	case g.view.Status == StatusReady:
		g.mu.Unlock()
		done := make(chan struct{})
		close(done)
		return done, nil
	}
	done := g.beginLoadLocked()
	g.mu.Unlock()

	go g.runLoad(context.WithoutCancel(ctx), done)
	return done, nil
}

func (g *Game) beginLoadLocked() chan struct{} {
	done := make(chan struct{})
	g.loading = done
	g.view.Status = StatusLoading
	g.view.Error = ""
	return done
}

func (g *Game) runLoad(ctx context.Context, done chan struct{}) {
	defer func() {
		g.mu.Lock()
		if g.loading == done {
			g.loading = nil
		}
		g.mu.Unlock()
		close(done)
	}()
	if err := g.LoadCategories(ctx); err != nil {
		logCtx(ctx).Warnf("Category load failed: %v", err)
	}
}

// LoadCategories fetches every configured category and builds the board.
// A failure in any request leaves the board empty and the status failed.
// Once a board has been built it is never replaced.
func (g *Game) LoadCategories(ctx context.Context) error {
	g.mu.Lock()
	ids := slices.Clone(g.categoryIDs)
	g.mu.Unlock()

	logCtx(ctx).Infof("Loading %d categories: %v", len(ids), ids)
	results, err := g.fetcher.FetchCategories(ctx, ids)

	g.mu.Lock()
	if g.view.Status == StatusReady {
		g.mu.Unlock()
		return nil
	}
	if err != nil {
		g.view.Status = StatusFailed
		g.view.Error = err.Error()
		g.mu.Unlock()
		g.notify(Event{Type: EventLoadFailed, Message: err.Error()})
		return err
	}

	g.categories, g.clues = buildBoard(results, g.intn)
	g.columns = renderBoard(g.categories, g.clues)
	g.dispatch = make(map[string]func() error, len(g.clues))
	for id := range g.clues {
		g.dispatch[id] = func() error { return g.selectClueLocked(id) }
	}
	g.view.Status = StatusReady
	g.view.Error = ""
	g.mu.Unlock()

	logCtx(ctx).Infof("Board ready: %d categories, %d clues", len(g.categories), len(g.clues))
	g.notify(Event{Type: EventBoardLoaded})
	return nil
}

// HandleBoardClick routes a click on the board to the clue it targets.
// Targets that carry no clue id are ignored.
func (g *Game) HandleBoardClick(target string) error {
	if target == "" {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.view.Status != StatusReady {
		return ErrBoardNotReady
	}
	handler, ok := g.dispatch[target]
	if !ok {
		return ErrUnknownClue
	}
	return handler()
}

// SelectClue opens the question card for clueID.
func (g *Game) SelectClue(clueID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selectClueLocked(clueID)
}

func (g *Game) selectClueLocked(clueID string) error {
	clue, ok := g.clues[clueID]
	if !ok {
		return ErrUnknownClue
	}

	g.view.Used[clueID] = true
	g.view.Modal.Input = ""
	g.current = &clue

	g.view.Modal.ClueText = clue.Question
	g.view.Modal.AnswerText = clue.Answer

	g.cancelDismissLocked()
	g.view.Modal.ShowingResult = false
	g.view.Modal.Visible = true
	return nil
}

// SubmitAnswer scores raw against the current clue and shows the result card,
// which closes itself after the configured delay.
func (g *Game) SubmitAnswer(raw string) (SubmitResult, error) {
	g.mu.Lock()
	if g.current == nil {
		g.mu.Unlock()
		return SubmitResult{}, ErrNoClueSelected
	}

	clue := *g.current
	correct := isCorrectAnswer(raw, clue.Answer)
	if correct {
		g.updateScoreLocked(clue.Value)
	}
	g.view.Modal.Input = raw
	g.revealAnswerLocked(correct)
	result := SubmitResult{Correct: correct, Score: g.score, Answer: clue.Answer}
	if correct {
		result.Value = clue.Value
	}
	g.mu.Unlock()

	if correct {
		g.notify(Event{Type: EventScoreChanged, Score: result.Score})
	}
	return result, nil
}

func (g *Game) updateScoreLocked(change int) {
	g.score += change
	g.view.Score = strconv.Itoa(g.score)
}

func (g *Game) revealAnswerLocked(correct bool) {
	g.view.Modal.Success = correct
	g.view.Modal.ShowingResult = true
	g.scheduleDismissLocked()
}

func (g *Game) scheduleDismissLocked() {
	g.cancelDismissLocked()
	gen := g.dismissGen
	g.dismissTimer = time.AfterFunc(g.resultDelay, func() { g.dismiss(gen) })
}

// cancelDismissLocked stops a pending dismiss. Bumping the generation also
// neutralizes a timer that has already fired and is waiting on the lock.
func (g *Game) cancelDismissLocked() {
	if g.dismissTimer != nil {
		g.dismissTimer.Stop()
		g.dismissTimer = nil
	}
	g.dismissGen++
}

func (g *Game) dismiss(gen uint64) {
	g.mu.Lock()
	if gen != g.dismissGen {
		g.mu.Unlock()
		return
	}
	g.dismissTimer = nil
	g.view.Modal.Visible = false
	g.mu.Unlock()
	g.notify(Event{Type: EventModalDismissed})
}

// Restart clears the display without touching the internal score.
func (g *Game) Restart() {
	g.mu.Lock()
	defer g.mu.Unlock()
	restartGame(&g.view)
}

// AnnounceWinner shows the two-player result card.
func (g *Game) AnnounceWinner(score1, score2 int) Winner {
	w := announceWinner(score1, score2)
	g.mu.Lock()
	g.view.Winner = WinnerModal{Visible: true, Heading: w.Heading, FinalScore: w.FinalScore}
	g.mu.Unlock()
	return w
}

// Close stops any pending timer.
func (g *Game) Close() {
	g.mu.Lock()
	g.cancelDismissLocked()
	g.mu.Unlock()
}

// Score returns the internal score.
func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

// CurrentClue returns the selected clue, if any.
func (g *Game) CurrentClue() (Clue, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return Clue{}, false
	}
	return *g.current, true
}

// Categories returns the loaded categories in board order.
func (g *Game) Categories() []Category {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.categories)
}

// Clue looks up a clue by id.
func (g *Game) Clue(id string) (Clue, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.clues[id]
	return c, ok
}

// View returns a copy of the display state with used markers applied.
func (g *Game) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := g.view
	v.Used = maps.Clone(g.view.Used)
	v.Columns = make([]Column, len(g.columns))
	for i, col := range g.columns {
		buttons := slices.Clone(col.Buttons)
		for j := range buttons {
			buttons[j].Used = v.Used[buttons[j].ClueID]
		}
		v.Columns[i] = Column{Title: col.Title, Buttons: buttons}
	}
	return v
}
