package main

import (
	"fmt"
	"strconv"
	"strings"

	"tvenglish/internal/app"
	"tvenglish/internal/profile"

	"github.com/spf13/cobra"
)

func coursesCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List courses with completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := s.ui.CourseList(s.app.Catalog().Courses(), s.app.Stats(cmd.Context()))
			_, err := fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func topicsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "topics [course-or-lesson-id]",
		Short: "List a course's topics with progress",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			course := s.app.Catalog().CourseForView(id)
			out := s.ui.TopicList(course, s.app.Topics(cmd.Context(), course.CourseID))
			_, err := fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func lessonCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "lesson <lesson-id>",
		Short: "Show a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printLesson(cmd, s, args[0])
		},
	}
}

func stepCmd(s *session, use, short string, forward bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <lesson-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := s.app.Catalog()
			if _, ok := cat.Lesson(args[0]); !ok {
				return fmt.Errorf("%w: %s", app.ErrUnknownLesson, args[0])
			}
			step := cat.PreviousLesson
			edge := "first"
			if forward {
				step = cat.NextLesson
				edge = "last"
			}
			id, ok := step(args[0])
			if !ok {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s is the %s lesson in its topic.\n", args[0], edge)
				return err
			}
			return printLesson(cmd, s, id)
		},
	}
}

func printLesson(cmd *cobra.Command, s *session, id string) error {
	v, ok := s.app.LessonView(cmd.Context(), id)
	if !ok {
		return fmt.Errorf("%w: %s", app.ErrUnknownLesson, id)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), s.ui.Lesson(v))
	return err
}

func completeCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <lesson-id>",
		Short: "Mark a lesson completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := s.app.CompleteLesson(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if res.NextLessonID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Up next: %s\n", res.NextLessonID)
			}
			return nil
		},
	}
}

func quizCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "quiz <lesson-id> <option>",
		Short: "Answer a lesson's practice question (options start at 1)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			option, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("option must be a number, got %q", args[1])
			}
			res, err := s.app.SubmitQuiz(cmd.Context(), args[0], option-1)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), s.ui.QuizResult(res))
			return err
		},
	}
}

func studyCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "study <lesson-id> <minutes>",
		Short: "Add study minutes to a lesson",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("minutes must be a number, got %q", args[1])
			}
			if err := s.app.RecordStudyTime(cmd.Context(), args[0], minutes); err != nil {
				return err
			}
			p := s.app.Progress().GetUserProgress(cmd.Context())
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d minutes total\n", args[0], p.TimeSpent[args[0]])
			return err
		},
	}
}

func progressCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show overall and per-topic progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var rows []app.TopicRow
			for _, c := range s.app.Catalog().Courses() {
				rows = append(rows, s.app.Topics(ctx, c.CourseID)...)
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), s.ui.Progress(s.app.Stats(ctx), rows))
			return err
		},
	}
}

func accountCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show profile and learning statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, ok := s.app.CurrentUser(ctx)
			_, err := fmt.Fprint(cmd.OutOrStdout(), s.ui.Account(s.app.Stats(ctx), p, ok))
			return err
		},
	}
}

func profileCmd(s *session) *cobra.Command {
	parent := &cobra.Command{
		Use:   "profile",
		Short: "Manage the local profile",
	}
	var username, email, birthdate, sex, phone string
	update := &cobra.Command{
		Use:   "update",
		Short: "Edit profile fields; unset flags are left alone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var u profile.ProfileUpdate
			changed := cmd.Flags().Changed
			if changed("username") {
				u.Username = &username
			}
			if changed("email") {
				u.Email = &email
			}
			if changed("birthdate") {
				u.Birthdate = &birthdate
			}
			if changed("sex") {
				v := profile.Sex(strings.ToLower(sex))
				u.Sex = &v
			}
			if changed("phone") {
				u.PhoneNumber = &phone
			}
			_, err := s.app.UpdateProfile(cmd.Context(), u)
			return err
		},
	}
	f := update.Flags()
	f.StringVar(&username, "username", "", "display name")
	f.StringVar(&email, "email", "", "email address")
	f.StringVar(&birthdate, "birthdate", "", "YYYY-MM-DD")
	f.StringVar(&sex, "sex", "", "male, female, other or prefer-not-to-say")
	f.StringVar(&phone, "phone", "", "phone number")
	parent.AddCommand(update)
	return parent
}

func signInCmd(s *session, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username> [email]",
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := ""
			if len(args) == 2 {
				email = args[1]
			}
			var err error
			if use == "signup" {
				_, err = s.app.SignUp(cmd.Context(), args[0], email)
			} else {
				_, err = s.app.SignIn(cmd.Context(), args[0], email)
			}
			return err
		},
	}
}

func logoutCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and erase local progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s.app.SignOut(cmd.Context())
			return nil
		},
	}
}

func searchCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find topics and lessons",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			_, err := fmt.Fprint(cmd.OutOrStdout(), s.ui.SearchResults(q, s.app.Catalog().Search(q)))
			return err
		},
	}
}

func repairCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Recompute cached topic progress from completed lessons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := s.app.RepairProgress(cmd.Context())
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%d lessons completed across %d topics\n", len(p.CompletedLessons), len(p.TopicProgress))
			return err
		},
	}
}
