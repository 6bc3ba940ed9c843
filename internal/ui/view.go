package ui

import (
	"fmt"
	"strings"
	"time"

	"tvenglish/internal/app"
	"tvenglish/internal/catalog"
	"tvenglish/internal/profile"
	"tvenglish/internal/quiz"

	"charm.land/bubbles/v2/progress"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

type Options struct {
	ASCIIOnly    bool
	StyleVariant string
	Columns      int
	Now          func() time.Time
}

// Renderer turns app view models into printable text. It holds no learner
// state of its own.
type Renderer struct {
	theme    Theme
	ascii    bool
	layout   LayoutMode
	bar      progress.Model
	textBar  bool
	markdown *glamour.TermRenderer
	now      func() time.Time
}

func New(opts Options) *Renderer {
	variant := opts.StyleVariant
	if opts.ASCIIOnly {
		variant = "plain"
	}
	theme := ThemeForVariant(variant)
	layout := DetermineLayoutMode(opts.Columns)

	style := "dark"
	if opts.ASCIIOnly {
		style = "notty"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(layout.wrapWidth()),
	)
	if err != nil {
		renderer = nil
	}

	r := &Renderer{
		theme:    theme,
		ascii:    opts.ASCIIOnly,
		layout:   layout,
		textBar:  opts.ASCIIOnly || theme.BarFull == "",
		markdown: renderer,
		now:      opts.Now,
	}
	if r.now == nil {
		r.now = time.Now
	}
	if !r.textBar {
		r.bar = progress.New(
			progress.WithWidth(layout.barWidth()),
			progress.WithColors(lipgloss.Color(theme.BarFull), lipgloss.Color(theme.BarMid), lipgloss.Color(theme.BarEmpty)),
			progress.WithScaled(true),
		)
	}
	return r
}

func (r *Renderer) ProgressBar(pct int) string {
	pct = max(0, min(100, pct))
	if r.textBar {
		w := r.layout.barWidth()
		filled := pct * w / 100
		return fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("#", filled), strings.Repeat("-", w-filled), pct)
	}
	return r.bar.ViewAs(float64(pct) / 100)
}

func (r *Renderer) check(done bool) string {
	switch {
	case r.ascii && done:
		return "[x]"
	case r.ascii:
		return "[ ]"
	case done:
		return r.theme.Pass.Render("✓")
	default:
		return r.theme.Muted.Render("·")
	}
}

func (r *Renderer) finish(s string) string {
	s = strings.TrimRight(s, "\n") + "\n"
	if r.ascii {
		return ansi.Strip(s)
	}
	return s
}

func (r *Renderer) renderMarkdown(md string) string {
	if r.markdown == nil {
		return md
	}
	out, err := r.markdown.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// CourseList shows every course with its lesson rollup from stats.
func (r *Renderer) CourseList(courses []catalog.Course, stats app.Stats) string {
	rollup := map[string]app.CourseStats{}
	for _, cs := range stats.Courses {
		rollup[cs.CourseID] = cs
	}
	var b strings.Builder
	b.WriteString(r.theme.Header.Render("Courses") + "\n\n")
	for _, c := range courses {
		cs := rollup[c.CourseID]
		fmt.Fprintf(&b, "%s  %s\n", r.theme.Accent.Render(string(c.Level)), r.theme.Title.Render(c.Title))
		if c.Description != "" {
			b.WriteString("    " + r.theme.Muted.Render(c.Description) + "\n")
		}
		fmt.Fprintf(&b, "    %s  %d/%d lessons  ~%dh  %s\n\n",
			r.ProgressBar(cs.Percent), cs.Completed, cs.Total, c.EstimatedHours, r.theme.Muted.Render(c.CourseID))
	}
	return r.finish(b.String())
}

// TopicList shows one course's topics with cached progress.
func (r *Renderer) TopicList(course catalog.Course, rows []app.TopicRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.theme.Header.Render(fmt.Sprintf("%s · %s", course.Level, course.Title)))
	b.WriteString(r.theme.Muted.Render(course.Level.Label()) + "\n\n")
	for _, row := range rows {
		name := row.Topic.Name
		if !r.ascii && row.Topic.Icon != "" {
			name = row.Topic.Icon + " " + name
		}
		fmt.Fprintf(&b, "%s %s  %s\n", r.check(row.Progress.Total > 0 && row.Progress.Completed == row.Progress.Total), r.theme.Title.Render(name), r.theme.Muted.Render(row.Topic.TopicID))
		fmt.Fprintf(&b, "    %s  %d/%d\n", r.ProgressBar(row.Progress.Percentage), row.Progress.Completed, row.Progress.Total)
		for _, id := range row.Topic.Lessons {
			b.WriteString("      " + r.theme.Muted.Render(id) + "\n")
		}
		b.WriteString("\n")
	}
	return r.finish(b.String())
}

// Lesson renders the lesson page. Practice options are numbered from 1.
func (r *Renderer) Lesson(v app.LessonView) string {
	l := v.Placement.Lesson
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.theme.Header.Render(fmt.Sprintf("%s › %s › %d/%d", v.Placement.Course.Title, v.Placement.Topic.Name, v.Position, v.TopicSize)))
	b.WriteString(r.renderMarkdown(LessonMarkdown(l)) + "\n\n")

	state := "not completed"
	if v.Completed {
		state = "completed"
	}
	status := []string{r.check(v.Completed) + " " + state}
	if v.HasScore {
		style := r.theme.Pass
		if v.QuizScore < 100 {
			style = r.theme.Fail
		}
		status = append(status, "quiz "+style.Render(fmt.Sprintf("%d%%", v.QuizScore)))
	}
	if v.Minutes > 0 {
		status = append(status, fmt.Sprintf("%s studied", formatMinutes(v.Minutes)))
	}
	b.WriteString(strings.Join(status, "  ") + "\n")

	nav := []string{}
	if v.PreviousID != "" {
		nav = append(nav, "prev: "+v.PreviousID)
	}
	if v.NextID != "" {
		nav = append(nav, "next: "+v.NextID)
	}
	if len(nav) > 0 {
		b.WriteString(r.theme.Muted.Render(strings.Join(nav, "   ")) + "\n")
	}
	return r.finish(b.String())
}

// LessonMarkdown is the markdown source of a lesson page.
func LessonMarkdown(l catalog.Lesson) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", l.Title)
	fmt.Fprintf(&b, "*%s · %s*\n\n", l.Difficulty, l.Difficulty.Label())
	if l.Description != "" {
		b.WriteString(l.Description + "\n\n")
	}
	for _, m := range l.Media {
		caption := m.Caption
		if caption == "" {
			caption = m.Placeholder
		}
		fmt.Fprintf(&b, "> [%s] %s\n\n", m.Type, caption)
	}
	if len(l.KeyPoints) > 0 {
		b.WriteString("## Key points\n\n")
		for _, kp := range l.KeyPoints {
			b.WriteString("- " + kp + "\n")
		}
		b.WriteString("\n")
	}
	if len(l.Examples) > 0 {
		b.WriteString("## Examples\n\n")
		for _, ex := range l.Examples {
			fmt.Fprintf(&b, "- **%s**", ex.Sentence)
			if ex.Explanation != "" {
				b.WriteString(": " + ex.Explanation)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if p := l.Practice; p != nil {
		b.WriteString("## Practice\n\n")
		b.WriteString(p.Question + "\n\n")
		for i, opt := range p.Options {
			fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) QuizResult(res quiz.Result) string {
	var b strings.Builder
	if res.Correct {
		b.WriteString(r.theme.Pass.Render("Correct!") + "\n")
	} else {
		b.WriteString(r.theme.Fail.Render("Not quite.") + "\n")
		fmt.Fprintf(&b, "You chose %d. %s\n", res.Selected+1, res.SelectedText)
		fmt.Fprintf(&b, "Answer:    %d. %s\n", res.CorrectOption+1, res.CorrectText)
	}
	if res.Explanation != "" {
		b.WriteString("\n" + r.theme.Info.Render(res.Explanation) + "\n")
	}
	fmt.Fprintf(&b, "\nScore recorded: %d%%\n", res.Score)
	return r.finish(b.String())
}

// Account is the profile plus learning summary.
func (r *Renderer) Account(s app.Stats, p profile.Profile, signedIn bool) string {
	var b strings.Builder
	b.WriteString(r.theme.Header.Render("Account") + "\n\n")
	if !signedIn {
		b.WriteString(r.theme.Muted.Render("Not signed in. Run `signup <username> [email]` to start tracking.") + "\n\n")
	} else {
		rows := [][2]string{
			{"Username", p.Username},
			{"Email", orDash(p.Email)},
			{"Role", string(p.Role)},
			{"Birthdate", orDash(p.Birthdate)},
			{"Sex", orDash(string(p.Sex))},
			{"Phone", orDash(p.PhoneNumber)},
		}
		if !s.JoinDate.IsZero() {
			rows = append(rows, [2]string{"Joined", fmt.Sprintf("%s (%s)", s.JoinDate.Local().Format("Jan 2, 2006"), humanize.RelTime(s.JoinDate, r.now(), "ago", "from now"))})
		}
		for _, row := range rows {
			fmt.Fprintf(&b, "%-10s %s\n", row[0], row[1])
		}
		b.WriteString("\n")
	}
	b.WriteString(r.summary(s))
	return r.finish(b.String())
}

// Progress is the learning summary with every topic's bar.
func (r *Renderer) Progress(s app.Stats, rows []app.TopicRow) string {
	var b strings.Builder
	b.WriteString(r.theme.Header.Render("Progress") + "\n\n")
	b.WriteString(r.summary(s) + "\n")
	b.WriteString(r.theme.Title.Render("Topics") + "\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%s %-28s %s\n", r.check(row.Progress.Percentage == 100), row.Topic.Name, r.ProgressBar(row.Progress.Percentage))
	}
	return r.finish(b.String())
}

func (r *Renderer) summary(s app.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lessons completed  %d/%d  %s\n", s.CompletedLessons, s.TotalLessons, r.ProgressBar(s.CompletionPct))
	fmt.Fprintf(&b, "Topics completed   %d\n", s.CompletedTopics)
	fmt.Fprintf(&b, "Study time         %s\n", formatMinutes(s.TotalMinutes))
	if s.QuizzesTaken > 0 {
		fmt.Fprintf(&b, "Average quiz score %d%% over %s\n", s.AverageScore, plural(s.QuizzesTaken, "quiz", "quizzes"))
	} else {
		b.WriteString("Average quiz score -\n")
	}
	streak := plural(s.StudyStreak, "day", "days")
	if s.StudyStreak > 0 && !r.ascii {
		streak += " 🔥"
	}
	fmt.Fprintf(&b, "Study streak       %s\n", streak)
	if s.MemberDays > 0 {
		fmt.Fprintf(&b, "Member for         %s\n", plural(s.MemberDays, "day", "days"))
	}
	if len(s.Courses) > 0 {
		b.WriteString("\n" + r.theme.Title.Render("Courses") + "\n")
		for _, c := range s.Courses {
			fmt.Fprintf(&b, "%-3s %-34s %2d/%-2d %s\n", c.Level, c.Title, c.Completed, c.Total, r.ProgressBar(c.Percent))
		}
	}
	return b.String()
}

func (r *Renderer) SearchResults(query string, hits []catalog.SearchHit) string {
	var b strings.Builder
	b.WriteString(r.theme.Header.Render(fmt.Sprintf("Search: %q", query)) + "\n\n")
	if len(hits) == 0 {
		b.WriteString(r.theme.Muted.Render("No topics or lessons match.") + "\n")
		return r.finish(b.String())
	}
	for _, h := range hits {
		kind := r.theme.Accent.Render(fmt.Sprintf("%-6s", h.Kind))
		fmt.Fprintf(&b, "%s %s  %s\n", kind, h.Title, r.theme.Muted.Render(h.ID))
	}
	fmt.Fprintf(&b, "\n%s\n", r.theme.Muted.Render(plural(len(hits), "match", "matches")))
	return r.finish(b.String())
}

// Toast formats a one-line notification.
func (r *Renderer) Toast(ok bool, msg string) string {
	switch {
	case r.ascii && ok:
		return "OK " + msg
	case r.ascii:
		return "!! " + msg
	case ok:
		return r.theme.Pass.Render("✓ ") + msg
	default:
		return r.theme.Fail.Render("✗ ") + msg
	}
}

func formatMinutes(m int) string {
	if m < 60 {
		return plural(m, "minute", "minutes")
	}
	return fmt.Sprintf("%s min (%dh %02dm)", humanize.Comma(int64(m)), m/60, m%60)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return humanize.Comma(int64(n)) + " " + many
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
