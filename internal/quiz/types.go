package quiz

import (
	"errors"

	"tvenglish/internal/catalog"
)

const (
	ResultKind    = "quiz_result"
	SchemaVersion = 1

	FullScore = 100
)

var ErrNoExercise = errors.New("lesson has no practice exercise")

type Request struct {
	LessonID string
	Exercise *catalog.Exercise
	Selected int
}

type Result struct {
	Kind          string `json:"kind"`
	SchemaVersion int    `json:"schema_version"`

	LessonID      string `json:"lesson_id"`
	Selected      int    `json:"selected"`
	SelectedText  string `json:"selected_text"`
	Correct       bool   `json:"correct"`
	CorrectOption int    `json:"correct_option"`
	CorrectText   string `json:"correct_text"`
	Score         int    `json:"score"`
	Explanation   string `json:"explanation,omitempty"`
}
