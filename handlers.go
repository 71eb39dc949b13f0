package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

const pageTitle = "Trivia Show"

// respond renders the board fragment for htmx requests and the full page otherwise.
// A non-empty errMsg is also raised as an HX-Trigger server_error event.
func (app *App) respond(c *gin.Context, status int, view View, errMsg string) {
	if errMsg != "" {
		payload := map[string]string{"server_error": errMsg}
		if b, jerr := json.Marshal(payload); jerr == nil {
			c.Header("HX-Trigger", string(b))
		} else {
			logWarn("Failed to marshal HX-Trigger payload: %v", jerr)
		}
	}
	data := gin.H{
		"title": pageTitle,
		"view":  view,
		"error": errMsg,
	}
	if c.GetHeader("HX-Request") == "true" {
		c.HTML(status, "board-content", data)
		return
	}
	c.HTML(status, "index.html", data)
}

// errorStatus maps controller errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnknownClue):
		return http.StatusNotFound
	case errors.Is(err, ErrNoClueSelected), errors.Is(err, ErrBoardNotReady), errors.Is(err, ErrLoadInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// homeHandler renders the full page for the session's board.
func (app *App) homeHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	game := app.getGame(c.Request.Context(), sessionID)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": pageTitle,
		"view":  game.View(),
	})
}

// boardHandler renders the board fragment; the page polls it while loading.
func (app *App) boardHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	game := app.getGame(c.Request.Context(), sessionID)
	c.HTML(http.StatusOK, "board-content", gin.H{"view": game.View()})
}

// selectClueHandler is the single delegated board handler; the clicked
// button's clue_id picks the clue.
func (app *App) selectClueHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	game := app.getGame(ctx, sessionID)

	clueID := c.PostForm("clue_id")
	if err := game.HandleBoardClick(clueID); err != nil {
		logCtx(ctx).Warnf("Session %s clicked clue %q: %v", sessionID, clueID, err)
		app.respond(c, errorStatus(err), game.View(), err.Error())
		return
	}
	logCtx(ctx).Infof("Session %s selected clue %s", sessionID, clueID)
	app.respond(c, http.StatusOK, game.View(), "")
}

// answerHandler scores the submitted answer against the current clue.
func (app *App) answerHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	game := app.getGame(ctx, sessionID)

	result, err := game.SubmitAnswer(c.PostForm("user-answer"))
	if err != nil {
		logCtx(ctx).Warnf("Session %s submitted an answer: %v", sessionID, err)
		app.respond(c, errorStatus(err), game.View(), err.Error())
		return
	}
	if result.Correct {
		logCtx(ctx).Infof("Session %s answered correctly (+%d, score %d)", sessionID, result.Value, result.Score)
	} else {
		logCtx(ctx).Infof("Session %s answered incorrectly (score %d)", sessionID, result.Score)
	}
	app.respond(c, http.StatusOK, game.View(), "")
}

// reloadHandler retries a failed category load.
func (app *App) reloadHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	game := app.getGame(ctx, sessionID)

	if _, err := game.Reload(ctx); err != nil {
		app.respond(c, errorStatus(err), game.View(), err.Error())
		return
	}
	logCtx(ctx).Infof("Session %s retried category load", sessionID)
	app.respond(c, http.StatusOK, game.View(), "")
}

// restartHandler clears the visible score and used markers.
func (app *App) restartHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	game := app.getGame(c.Request.Context(), sessionID)
	game.Restart()
	app.respond(c, http.StatusOK, game.View(), "")
}

// newGameHandler discards the session's board and deals a fresh one.
func (app *App) newGameHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	game := app.replaceGame(c.Request.Context(), sessionID)

	if c.GetHeader("HX-Request") == "true" {
		c.HTML(http.StatusOK, "board-content", gin.H{"view": game.View()})
		return
	}
	c.Redirect(http.StatusSeeOther, RouteHome)
}

// winnerHandler shows the two-player result card for ?score1=&score2=.
func (app *App) winnerHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	game := app.getGame(c.Request.Context(), sessionID)

	score1, err1 := parseInt(c.Query("score1"))
	score2, err2 := parseInt(c.Query("score2"))
	if err1 != nil || err2 != nil {
		app.respond(c, http.StatusBadRequest, game.View(), ErrorInvalidScore)
		return
	}
	w := game.AnnounceWinner(score1, score2)
	logInfo("Session %s winner card: %s (%s)", sessionID, w.Heading, w.FinalScore)
	app.respond(c, http.StatusOK, game.View(), "")
}

// apiBoardHandler returns the session's view as JSON.
func (app *App) apiBoardHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	game := app.getGame(c.Request.Context(), sessionID)
	c.JSON(http.StatusOK, gin.H{
		"view":     game.View(),
		"internal": gin.H{"score": game.Score()},
	})
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"env":        app.Config.env(),
		"sessions":   app.sessionCount(),
		"categories": app.Config.CategoryIDs,
		"uptime":     formatUptime(uptime),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}
