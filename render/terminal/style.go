package terminal

import "github.com/charmbracelet/lipgloss"

var (
	colorTime   = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"}
	colorBright = lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#f1f5f9"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#64748b"}
)

var (
	styleTitle     = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleMeta      = lipgloss.NewStyle().Foreground(colorDim)
	styleTime      = lipgloss.NewStyle().Foreground(colorTime)
	styleSeparator = lipgloss.NewStyle().Foreground(colorDim)
)
