package ui

import "charm.land/lipgloss/v2"

type Theme struct {
	Header  lipgloss.Style
	Title   lipgloss.Style
	Panel   lipgloss.Style
	Body    lipgloss.Style
	Accent  lipgloss.Style
	Pass    lipgloss.Style
	Fail    lipgloss.Style
	Pending lipgloss.Style
	Muted   lipgloss.Style
	Info    lipgloss.Style

	BarFull  string
	BarEmpty string
	BarMid   string
}

func DefaultTheme() Theme {
	return ThemeForVariant("classroom")
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "night_study":
		return nightStudyTheme()
	case "plain":
		return plainTheme()
	default:
		return classroomTheme()
	}
}

func classroomTheme() Theme {
	chalk := lipgloss.Color("#EAF2FF")
	board := lipgloss.Color("#1B2740")
	sky := lipgloss.Color("#5EC2FF")
	mint := lipgloss.Color("#79E6A6")
	apple := lipgloss.Color("#FF6F91")
	pencil := lipgloss.Color("#F2D16B")
	border := lipgloss.Color("#4B5F8A")

	return Theme{
		Header: lipgloss.NewStyle().
			Background(board).
			Foreground(chalk).
			Bold(true).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Foreground(sky).
			Bold(true),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Body:    lipgloss.NewStyle().Foreground(chalk),
		Accent:  lipgloss.NewStyle().Foreground(sky).Bold(true),
		Pass:    lipgloss.NewStyle().Foreground(mint).Bold(true),
		Fail:    lipgloss.NewStyle().Foreground(apple).Bold(true),
		Pending: lipgloss.NewStyle().Foreground(pencil),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#9CAAC6")),
		Info:    lipgloss.NewStyle().Foreground(sky),

		BarFull:  "#5EC2FF",
		BarMid:   "#79E6A6",
		BarEmpty: "#F2D16B",
	}
}

func nightStudyTheme() Theme {
	honey := lipgloss.Color("#F2B872")
	sage := lipgloss.Color("#80C4A3")
	rose := lipgloss.Color("#D17A86")
	night := lipgloss.Color("#1E2430")
	paper := lipgloss.Color("#F4F6FA")
	lamp := lipgloss.Color("#86B6F6")

	return Theme{
		Header: lipgloss.NewStyle().Background(night).Foreground(paper).Bold(true).Padding(0, 1),
		Title:  lipgloss.NewStyle().Foreground(honey).Bold(true),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(honey).
			Padding(0, 1),
		Body:    lipgloss.NewStyle().Foreground(paper),
		Accent:  lipgloss.NewStyle().Foreground(lamp).Bold(true),
		Pass:    lipgloss.NewStyle().Foreground(sage).Bold(true),
		Fail:    lipgloss.NewStyle().Foreground(rose).Bold(true),
		Pending: lipgloss.NewStyle().Foreground(honey),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#A3ACC2")),
		Info:    lipgloss.NewStyle().Foreground(lamp),

		BarFull:  "#86B6F6",
		BarMid:   "#80C4A3",
		BarEmpty: "#F2B872",
	}
}

// plainTheme carries no colour so output stays readable when piped.
func plainTheme() Theme {
	s := lipgloss.NewStyle()
	return Theme{
		Header:  s.Bold(true),
		Title:   s.Bold(true),
		Panel:   s.BorderStyle(lipgloss.NormalBorder()).Padding(0, 1),
		Body:    s,
		Accent:  s,
		Pass:    s,
		Fail:    s,
		Pending: s,
		Muted:   s,
		Info:    s,
	}
}
