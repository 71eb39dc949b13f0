package main

import "strings"

// normalizeAnswer folds an answer so that trivial variations compare equal.
// Only the first <i> and the first </i> are removed.
func normalizeAnswer(input string) string {
	friendly := strings.ToLower(input)
	friendly = strings.Replace(friendly, "<i>", "", 1)
	friendly = strings.Replace(friendly, "</i>", "", 1)
	friendly = strings.ReplaceAll(friendly, `"`, "")
	friendly = strings.TrimPrefix(friendly, "a ")
	friendly = strings.TrimPrefix(friendly, "an ")
	friendly = strings.ReplaceAll(friendly, " ", "")
	return strings.TrimSpace(friendly)
}

// isCorrectAnswer reports whether a submission matches the stored answer.
func isCorrectAnswer(submitted, answer string) bool {
	return normalizeAnswer(submitted) == normalizeAnswer(answer)
}
