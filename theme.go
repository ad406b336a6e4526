package pusula

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme. A negative index means no color.
type Theme struct {
	Crop    int // Primary crop name
	Error   int // Error panel text
	ErrorBg int // Error panel background
	Success int // Confidence bar, done indicator
	Warning int // Risks
	Muted   int // Status bar, hints, links
	Accent  int // Headings
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Crop:    4,
		Error:   1,
		ErrorBg: -1,
		Success: 2,
		Warning: 3,
		Muted:   8,
		Accent:  5,
	}
}
