package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// sessionEntry pairs a session's controller with its last access time.
type sessionEntry struct {
	game           *Game
	lastAccessTime time.Time
}

// isValidSessionID reports whether id looks like a session cookie we issued.
func isValidSessionID(id string) bool {
	return uuid.Validate(id) == nil
}

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || !isValidSessionID(sessionID) {
		sessionID = uuid.NewString()
		app.setSessionCookie(c, sessionID)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

func (app *App) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, sessionID, int(app.Config.CookieMaxAge.Seconds()), "/", "", app.Config.Production, true)
}

// getGame returns the session's controller, creating and initializing one on first use.
func (app *App) getGame(ctx context.Context, sessionID string) *Game {
	app.SessionMutex.Lock()
	entry, exists := app.GameSessions[sessionID]
	if exists {
		entry.lastAccessTime = time.Now()
		app.SessionMutex.Unlock()
		logCtx(ctx).Debugf("Retrieved cached game for session: %s", sessionID)
		return entry.game
	}
	game := app.newGameLocked(sessionID)
	app.SessionMutex.Unlock()

	logCtx(ctx).Infof("Creating new game for session: %s", sessionID)
	game.Initialize(ctx)
	return game
}

// lookupGame returns the session's controller without creating one.
func (app *App) lookupGame(sessionID string) (*Game, bool) {
	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	entry, ok := app.GameSessions[sessionID]
	if !ok {
		return nil, false
	}
	entry.lastAccessTime = time.Now()
	return entry.game, true
}

// replaceGame discards the session's controller and starts a fresh one.
func (app *App) replaceGame(ctx context.Context, sessionID string) *Game {
	app.SessionMutex.Lock()
	if old, ok := app.GameSessions[sessionID]; ok {
		old.game.Close()
	}
	game := app.newGameLocked(sessionID)
	app.SessionMutex.Unlock()

	logCtx(ctx).Infof("Cleared old game and started a new one for session: %s", sessionID)
	game.Initialize(ctx)
	return game
}

func (app *App) newGameLocked(sessionID string) *Game {
	game := NewGame(app.Fetcher, GameOptions{
		CategoryIDs: app.Config.CategoryIDs,
		ResultDelay: app.Config.ResultDelay,
		Notify:      app.Hub.Notifier(sessionID),
	})
	app.GameSessions[sessionID] = &sessionEntry{game: game, lastAccessTime: time.Now()}
	return game
}

// cleanupSessions removes boards idle for longer than maxAge and returns how many went.
func (app *App) cleanupSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	app.SessionMutex.Lock()
	for sessionID, entry := range app.GameSessions {
		if entry.lastAccessTime.IsZero() || entry.lastAccessTime.Before(cutoff) {
			entry.game.Close()
			delete(app.GameSessions, sessionID)
			removed++
		}
	}
	app.SessionMutex.Unlock()

	if removed > 0 {
		logInfo("Session cleanup completed: removed %d idle boards", removed)
	}
	return removed
}

// reapSessions runs cleanupSessions every maxAge/2 until ctx is done.
func (app *App) reapSessions(ctx context.Context, maxAge time.Duration) {
	if maxAge <= 0 {
		return
	}
	ticker := time.NewTicker(maxAge / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.cleanupSessions(maxAge)
		}
	}
}

func (app *App) closeSessions() {
	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	for _, entry := range app.GameSessions {
		entry.game.Close()
	}
}

func (app *App) sessionCount() int {
	app.SessionMutex.RLock()
	defer app.SessionMutex.RUnlock()
	return len(app.GameSessions)
}
