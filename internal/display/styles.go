package display

import "github.com/charmbracelet/lipgloss"

// Kitchen palette: warm neutrals with herb and saffron accents.
const (
	colorFlour   = lipgloss.Color("#f5f0e6")
	colorCrust   = lipgloss.Color("#3b2f2a")
	colorAsh     = lipgloss.Color("#8c8279")
	colorSmoke   = lipgloss.Color("#b5aca3")
	colorSaffron = lipgloss.Color("#f4b942")
	colorBasil   = lipgloss.Color("#7fb77e")
	colorPaprika = lipgloss.Color("#f28c6b")
	colorPepper  = lipgloss.Color("#5c4f47")
)

var (
	statusBar = lipgloss.NewStyle().Background(colorCrust).Foreground(colorSmoke)
	statusDim = lipgloss.NewStyle().Foreground(colorAsh).Italic(true)
	statusSep = lipgloss.NewStyle().Foreground(colorPepper)

	dishStyle  = lipgloss.NewStyle().Foreground(colorSaffron)
	countStyle = lipgloss.NewStyle().Foreground(colorBasil)

	promptStyle = lipgloss.NewStyle().Foreground(colorPaprika).Bold(true)
	echoStyle   = lipgloss.NewStyle().Foreground(colorSmoke)

	headingStyle = lipgloss.NewStyle().Foreground(colorSaffron).Bold(true)
	bodyStyle    = lipgloss.NewStyle().Foreground(colorFlour)
	hintStyle    = lipgloss.NewStyle().Foreground(colorAsh)

	// BannerStyle colours the startup banner and the lines printed under it.
	BannerStyle = lipgloss.NewStyle().Foreground(colorPaprika)
)
