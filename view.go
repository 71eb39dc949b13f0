package main

import (
	"fmt"
	"maps"
)

// restartGame resets the visible score and used markers and hides the winner
// card. It works on the display only; a controller's internal score is kept.
func restartGame(v *View) {
	v.Score = "0"
	maps.DeleteFunc(v.Used, func(string, bool) bool { return true })
	v.Winner.Visible = false
}

// announceWinner compares two final scores. A strictly greater score wins;
// equal scores tie.
func announceWinner(score1, score2 int) Winner {
	w := Winner{FinalScore: fmt.Sprintf("Player 1: %d - Player 2: %d", score1, score2)}
	switch {
	case score1 > score2:
		w.Player = "Player 1"
	case score2 > score1:
		w.Player = "Player 2"
	default:
		w.Tie = true
	}
	if w.Tie {
		w.Heading = "It's a tie!"
	} else {
		w.Heading = fmt.Sprintf("Congratulations, %s!", w.Player)
	}
	return w
}
