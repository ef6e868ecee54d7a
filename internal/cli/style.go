package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/models"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	DangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	barFullStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
)

// Bar renders percent (0-100) as a fixed-width progress bar.
func Bar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(percent / 100 * float64(width))
	filled = max(0, min(filled, width))
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// RateCell renders a completion rate as a short colored cell for calendars.
func RateCell(rate int, present, cheat bool) string {
	label := fmt.Sprintf("%3d", rate)
	switch {
	case cheat:
		return WarningStyle.Render("  C")
	case !present:
		return MutedStyle.Render("  ·")
	case rate >= 100:
		return SuccessStyle.Bold(true).Render(label)
	case rate >= 50:
		return SuccessStyle.Render(label)
	default:
		return DangerStyle.UnsetBold().Render(label)
	}
}

// Confirm asks a yes/no question. assumeYes skips the prompt.
func Confirm(title string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeBase())
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("interactive form error: %w", err)
	}
	return ok, nil
}

// PrintUnlocked announces newly earned badges.
func PrintUnlocked(badges []models.Badge) {
	for _, b := range badges {
		fmt.Println(TitleStyle.Render("🏅 Badge unlocked: "+b.Name) + " " + MutedStyle.Render(b.Description))
	}
}
