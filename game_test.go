package main

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func testGame(t *testing.T, fetcher CategoryFetcher, delay time.Duration) (*Game, *eventRecorder) {
	t.Helper()
	rec := &eventRecorder{}
	g := NewGame(fetcher, GameOptions{ResultDelay: delay, Intn: identityIntn, Notify: rec.record})
	t.Cleanup(g.Close)
	return g, rec
}

func loadedGame(t *testing.T, delay time.Duration) (*Game, *eventRecorder) {
	t.Helper()
	g, rec := testGame(t, newFakeFetcher(), delay)
	if err := g.LoadCategories(dummyContext()); err != nil {
		t.Fatalf("LoadCategories: %v", err)
	}
	return g, rec
}

func TestNewGame_Defaults(t *testing.T) {
	g := NewGame(newFakeFetcher(), GameOptions{})
	if !slices.Equal(g.categoryIDs, DefaultCategoryIDs) {
		t.Errorf("categoryIDs = %v, want %v", g.categoryIDs, DefaultCategoryIDs)
	}
	if g.resultDelay != ResultDisplayDelay {
		t.Errorf("resultDelay = %v, want %v", g.resultDelay, ResultDisplayDelay)
	}
	if g.View().Status != StatusLoading {
		t.Errorf("status = %q, want loading", g.View().Status)
	}
}

func TestInitialize_LoadsInBackground(t *testing.T) {
	g, rec := testGame(t, newFakeFetcher(), time.Second)
	done := g.Initialize(dummyContext())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Initialize never finished loading")
	}

	v := g.View()
	if v.Status != StatusReady {
		t.Fatalf("status = %q, want ready (error %q)", v.Status, v.Error)
	}
	if v.Score != "0" {
		t.Errorf("displayed score = %q, want \"0\"", v.Score)
	}
	if got := rec.types(); !slices.Equal(got, []string{EventBoardLoaded}) {
		t.Errorf("events = %v", got)
	}
}

func TestLoadCategories_ConfiguredOrder(t *testing.T) {
	g, _ := loadedGame(t, time.Second)
	v := g.View()

	wantTitles := []string{"Rivers", "Poets", "Capitals", "Birds"}
	wantButtons := []int{5, 5, 5, 3}
	if len(v.Columns) != len(wantTitles) {
		t.Fatalf("got %d columns, want %d", len(v.Columns), len(wantTitles))
	}
	for i, col := range v.Columns {
		if col.Title != wantTitles[i] {
			t.Errorf("column %d = %q, want %q", i, col.Title, wantTitles[i])
		}
		if len(col.Buttons) != wantButtons[i] {
			t.Errorf("column %q has %d buttons, want %d", col.Title, len(col.Buttons), wantButtons[i])
		}
		for j, b := range col.Buttons {
			if b.Value != (j+1)*100 {
				t.Errorf("column %q button %d value = %d", col.Title, j, b.Value)
			}
		}
	}
	if cats := g.Categories(); len(cats) != 4 || cats[2].Clues[0] != "2-0" {
		t.Errorf("unexpected categories: %+v", cats)
	}
}

func TestLoadCategories_CustomIDs(t *testing.T) {
	f := newFakeFetcher()
	g := NewGame(f, GameOptions{CategoryIDs: []int{218, 88}, Intn: identityIntn})
	if err := g.LoadCategories(dummyContext()); err != nil {
		t.Fatalf("LoadCategories: %v", err)
	}
	v := g.View()
	if len(v.Columns) != 2 || v.Columns[0].Title != "Birds" || v.Columns[1].Title != "Capitals" {
		t.Errorf("unexpected columns: %+v", v.Columns)
	}
}

func TestLoadCategories_FailureRendersNothing(t *testing.T) {
	f := newFakeFetcher()
	f.err = errors.New("connection refused")
	g, rec := testGame(t, f, time.Second)

	if err := g.LoadCategories(dummyContext()); err == nil {
		t.Fatal("expected load error")
	}
	v := g.View()
	if v.Status != StatusFailed || v.Error == "" {
		t.Errorf("status = %q, error = %q", v.Status, v.Error)
	}
	if len(v.Columns) != 0 {
		t.Errorf("failed load rendered %d columns", len(v.Columns))
	}
	if err := g.HandleBoardClick("0-0"); !errors.Is(err, ErrBoardNotReady) {
		t.Errorf("HandleBoardClick on failed board = %v, want ErrBoardNotReady", err)
	}
	if got := rec.types(); !slices.Equal(got, []string{EventLoadFailed}) {
		t.Errorf("events = %v", got)
	}
}

func TestReload_AfterFailure(t *testing.T) {
	f := newFakeFetcher()
	f.err = errors.New("boom")
	g, _ := testGame(t, f, time.Second)
	<-g.Initialize(dummyContext())
	if g.View().Status != StatusFailed {
		t.Fatalf("status = %q, want failed", g.View().Status)
	}

	f.err = nil
	done, err := g.Reload(dummyContext())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	<-done
	if v := g.View(); v.Status != StatusReady || len(v.Columns) != 4 {
		t.Errorf("after reload status = %q with %d columns", v.Status, len(v.Columns))
	}

	// A ready board is never rebuilt.
	done, err = g.Reload(dummyContext())
	if err != nil {
		t.Fatalf("Reload on ready board: %v", err)
	}
	<-done
	if calls := f.calls.Load(); calls != 2 {
		t.Errorf("fetcher called %d times, want 2", calls)
	}
}

func TestReload_WhileLoading(t *testing.T) {
	f := newFakeFetcher()
	f.gate = make(chan struct{})
	g, _ := testGame(t, f, time.Second)
	done := g.Initialize(dummyContext())

	if _, err := g.Reload(dummyContext()); !errors.Is(err, ErrLoadInProgress) {
		t.Errorf("Reload during load = %v, want ErrLoadInProgress", err)
	}
	close(f.gate)
	<-done
}

func TestSelectClue(t *testing.T) {
	g, _ := loadedGame(t, time.Second)

	if err := g.HandleBoardClick("1-2"); err != nil {
		t.Fatalf("HandleBoardClick: %v", err)
	}
	v := g.View()
	if !v.Modal.Visible || v.Modal.ShowingResult {
		t.Errorf("modal = %+v, want visible in question mode", v.Modal)
	}
	if v.Modal.ClueText != "Poets question 3" || v.Modal.AnswerText != "Poets answer 3" {
		t.Errorf("modal text = %q / %q", v.Modal.ClueText, v.Modal.AnswerText)
	}
	if !v.Columns[1].Buttons[2].Used || v.Columns[1].Buttons[1].Used {
		t.Error("only the clicked button should be marked used")
	}
	clue, ok := g.CurrentClue()
	if !ok || clue.ID != "1-2" || clue.Value != 300 {
		t.Errorf("current clue = %+v, %v", clue, ok)
	}
}

func TestSelectClue_Errors(t *testing.T) {
	g, _ := loadedGame(t, time.Second)
	if err := g.HandleBoardClick("9-9"); !errors.Is(err, ErrUnknownClue) {
		t.Errorf("HandleBoardClick(9-9) = %v, want ErrUnknownClue", err)
	}
	if err := g.SelectClue("nope"); !errors.Is(err, ErrUnknownClue) {
		t.Errorf("SelectClue(nope) = %v, want ErrUnknownClue", err)
	}
	if err := g.HandleBoardClick(""); err != nil {
		t.Errorf("click without a clue id should be ignored, got %v", err)
	}
	if g.View().Modal.Visible {
		t.Error("modal should stay closed")
	}
}

func TestSelectClue_ClearsPreviousInput(t *testing.T) {
	g, _ := loadedGame(t, time.Second)
	_ = g.SelectClue("0-0")
	if _, err := g.SubmitAnswer("something"); err != nil {
		t.Fatal(err)
	}
	_ = g.SelectClue("0-1")
	if in := g.View().Modal.Input; in != "" {
		t.Errorf("input = %q, want cleared", in)
	}
}

func TestSubmitAnswer_NoClueSelected(t *testing.T) {
	g, _ := loadedGame(t, time.Second)
	if _, err := g.SubmitAnswer("anything"); !errors.Is(err, ErrNoClueSelected) {
		t.Errorf("SubmitAnswer = %v, want ErrNoClueSelected", err)
	}
	if g.Score() != 0 || g.View().Modal.Visible {
		t.Error("a rejected submission must not change state")
	}
}

func TestSubmitAnswer_Scoring(t *testing.T) {
	g, rec := loadedGame(t, time.Second)

	_ = g.SelectClue("2-3")
	res, err := g.SubmitAnswer("CAPITALS ANSWER 4")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Correct || res.Value != 400 || res.Score != 400 {
		t.Errorf("correct submission = %+v", res)
	}
	v := g.View()
	if v.Score != "400" || !v.Modal.ShowingResult || !v.Modal.Success {
		t.Errorf("view after correct answer: score %q modal %+v", v.Score, v.Modal)
	}

	_ = g.SelectClue("2-4")
	res, err = g.SubmitAnswer("wrong")
	if err != nil {
		t.Fatal(err)
	}
	if res.Correct || res.Value != 0 || res.Score != 400 {
		t.Errorf("incorrect submission = %+v", res)
	}
	if v := g.View(); v.Modal.Success || v.Score != "400" {
		t.Errorf("view after wrong answer: score %q modal %+v", v.Score, v.Modal)
	}

	if got := rec.types(); !slices.Contains(got, EventScoreChanged) {
		t.Errorf("expected a score_changed event, got %v", got)
	}
}

func TestSubmitAnswer_ScoreNeverDecreases(t *testing.T) {
	g, _ := loadedGame(t, time.Second)
	answers := []struct {
		clue   string
		answer string
	}{
		{"0-0", "rivers answer 1"},
		{"0-1", "nope"},
		{"1-0", "Poets Answer 1"},
		{"1-1", ""},
		{"3-2", "birds answer 3"},
		{"3-2", "birds answer 3"},
	}
	last := 0
	for _, a := range answers {
		if err := g.SelectClue(a.clue); err != nil {
			t.Fatal(err)
		}
		res, err := g.SubmitAnswer(a.answer)
		if err != nil {
			t.Fatal(err)
		}
		if res.Score < last {
			t.Fatalf("score decreased from %d to %d", last, res.Score)
		}
		last = res.Score
	}
	if last != 100+100+300+300 {
		t.Errorf("final score = %d, want 800", last)
	}
}

func TestResultModal_AutoDismiss(t *testing.T) {
	g, rec := loadedGame(t, 20*time.Millisecond)
	_ = g.SelectClue("0-0")
	if _, err := g.SubmitAnswer("x"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "modal to close", func() bool { return !g.View().Modal.Visible })
	waitFor(t, "modal_dismissed event", func() bool {
		return slices.Contains(rec.types(), EventModalDismissed)
	})
}

func TestResultModal_NewClueCancelsPendingDismiss(t *testing.T) {
	g, _ := loadedGame(t, 30*time.Millisecond)
	_ = g.SelectClue("0-0")
	if _, err := g.SubmitAnswer("x"); err != nil {
		t.Fatal(err)
	}
	_ = g.SelectClue("0-1")

	time.Sleep(100 * time.Millisecond)
	v := g.View()
	if !v.Modal.Visible || v.Modal.ShowingResult {
		t.Errorf("stale timer closed the new question: %+v", v.Modal)
	}
}

func TestResultModal_StaleGenerationIgnored(t *testing.T) {
	g, _ := loadedGame(t, time.Hour)
	_ = g.SelectClue("0-0")
	if _, err := g.SubmitAnswer("x"); err != nil {
		t.Fatal(err)
	}
	g.mu.Lock()
	stale := g.dismissGen
	g.mu.Unlock()

	_ = g.SelectClue("0-1")
	g.dismiss(stale)
	if !g.View().Modal.Visible {
		t.Error("a fired-but-stale dismiss hid the new modal")
	}
}

func TestRestart_KeepsInternalScore(t *testing.T) {
	g, _ := loadedGame(t, time.Second)
	_ = g.SelectClue("0-1")
	if _, err := g.SubmitAnswer("rivers answer 2"); err != nil {
		t.Fatal(err)
	}
	g.AnnounceWinner(1, 2)

	g.Restart()
	v := g.View()
	if v.Score != "0" {
		t.Errorf("displayed score = %q, want \"0\"", v.Score)
	}
	if v.Columns[0].Buttons[1].Used {
		t.Error("used marker survived restart")
	}
	if v.Winner.Visible {
		t.Error("winner card still visible after restart")
	}
	if g.Score() != 200 {
		t.Errorf("internal score = %d, want 200", g.Score())
	}
}

func TestAnnounceWinner_OnGame(t *testing.T) {
	g, _ := loadedGame(t, time.Second)
	w := g.AnnounceWinner(10, 5)
	if w.Player != "Player 1" {
		t.Errorf("winner = %q", w.Player)
	}
	v := g.View()
	if !v.Winner.Visible || v.Winner.Heading != "Congratulations, Player 1!" || v.Winner.FinalScore != "Player 1: 10 - Player 2: 5" {
		t.Errorf("winner card = %+v", v.Winner)
	}
}

func TestView_IsACopy(t *testing.T) {
	g, _ := loadedGame(t, time.Second)
	v := g.View()
	v.Used["0-0"] = true
	v.Columns[0].Buttons[0].Value = 9999
	fresh := g.View()
	if fresh.Used["0-0"] || fresh.Columns[0].Buttons[0].Value != 100 {
		t.Error("mutating a View leaked into the game")
	}
}
