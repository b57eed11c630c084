package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// ToneColor maps a status tone to its terminal color:
// red for errors, yellow (the terminal's orange) for warnings, green for success.
func ToneColor(tone usecase.Tone) *color.Color {
	switch tone {
	case usecase.ToneError:
		return color.New(color.FgRed)
	case usecase.ToneWarning:
		return color.New(color.FgYellow)
	case usecase.ToneSuccess:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgCyan)
	}
}

// ToneIcon returns the status icon for a tone
func ToneIcon(tone usecase.Tone) string {
	switch tone {
	case usecase.ToneError:
		return "❌"
	case usecase.ToneWarning:
		return "●"
	case usecase.ToneSuccess:
		return "✓"
	default:
		return "ℹ"
	}
}
