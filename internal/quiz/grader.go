package quiz

import (
	"context"
	"fmt"
)

// DefaultGrader scores single-answer multiple choice: full marks for the
// correct option, zero otherwise.
type DefaultGrader struct{}

func NewGrader() *DefaultGrader { return &DefaultGrader{} }

func (g *DefaultGrader) Grade(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	ex := req.Exercise
	if ex == nil {
		return Result{}, fmt.Errorf("%s: %w", req.LessonID, ErrNoExercise)
	}
	if err := ex.Validate(); err != nil {
		return Result{}, fmt.Errorf("%s: practice: %w", req.LessonID, err)
	}
	if req.Selected < 0 || req.Selected >= len(ex.Options) {
		return Result{}, fmt.Errorf("option %d out of range 0..%d", req.Selected, len(ex.Options)-1)
	}

	correct := req.Selected == ex.CorrectOption
	res := Result{
		Kind:          ResultKind,
		SchemaVersion: SchemaVersion,
		LessonID:      req.LessonID,
		Selected:      req.Selected,
		SelectedText:  ex.Options[req.Selected],
		Correct:       correct,
		CorrectOption: ex.CorrectOption,
		CorrectText:   ex.Options[ex.CorrectOption],
		Explanation:   ex.Explanation,
	}
	if correct {
		res.Score = FullScore
	}
	return res, nil
}
