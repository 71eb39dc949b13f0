package types

// APIClue is a single clue as returned by the trivia category endpoint.
type APIClue struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Value      int    `json:"value"`
	CategoryID int    `json:"category_id"`
}

// APICategory is the payload of GET /api/category?id=N.
type APICategory struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	CluesCount int       `json:"clues_count"`
	Clues      []APIClue `json:"clues"`
}

type Category struct {
	Title string   `json:"title"`
	Clues []string `json:"clues"`
}

type Clue struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Value    int    `json:"value"`
}
