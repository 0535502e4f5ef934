package output

import "github.com/charmbracelet/lipgloss"

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolWarning = "!"
	SymbolError   = "✗"
	SymbolSkipped = "-"
)

// Styles are the lipgloss styles used for text output.
type Styles struct {
	Header   lipgloss.Style
	Title    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Group    lipgloss.Style
}

// NewStyles builds the styles for a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#1d4ed8", Dark: "#93c5fd"}),
		Title: r.NewStyle().
			Bold(true),
		Success: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"}),
		Warning: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fbbf24"}),
		Error: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"}),
		Info: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0369a1", Dark: "#7dd3fc"}),
		Bold: r.NewStyle().
			Bold(true),
		Muted: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}),
		Selected: r.NewStyle().
			Reverse(true),
		Group: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#c4b5fd"}),
	}
}
