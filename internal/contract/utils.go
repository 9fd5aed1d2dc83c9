package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sprawl-dev/sprawl/schema"
)

// Level label constants.
const (
	SevereValue = "Severe" // Severe value
	HighValue   = "High"   // High value
	MildValue   = "Mild"   // Mild value
	CleanValue  = "Clean"  // Clean value
)

// Color variables for console output.
var (
	SevereColor = color.New(color.FgRed, color.Bold) // SevereColor represents standard danger.
	HighColor   = color.New(color.FgMagenta)         // HighColor represents strong, distinct warning.
	MildColor   = color.New(color.FgYellow)          // MildColor represents standard caution.
	CleanColor  = color.New(color.FgGreen)           // CleanColor represents a healthy file.
)

// GetPlainLabel returns a plain text label for a sprawl level.
// Unknown levels are returned unchanged.
func GetPlainLabel(level schema.SprawlLevel) string {
	switch level {
	case schema.SevereLevel:
		return SevereValue
	case schema.HighLevel:
		return HighValue
	case schema.MildLevel:
		return MildValue
	case schema.CleanLevel:
		return CleanValue
	default:
		return string(level)
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(level schema.SprawlLevel) string {
	text := GetPlainLabel(level)

	switch level {
	case schema.SevereLevel:
		return SevereColor.Sprint(text)
	case schema.HighLevel:
		return HighColor.Sprint(text)
	case schema.MildLevel:
		return MildColor.Sprint(text)
	case schema.CleanLevel:
		return CleanColor.Sprint(text)
	default:
		return text
	}
}

// GetStatusLabel returns a short progress label for a scan status.
func GetStatusLabel(status schema.ScanStatus) string {
	switch status {
	case schema.PendingStatus:
		return "⏳ Pending"
	case schema.RunningStatus:
		return "🔄 Running"
	case schema.CompletedStatus:
		return "✅ Completed"
	case schema.FailedStatus:
		return "❌ Failed"
	default:
		return string(status)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to leave room for the "..." prefix and at least one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// MatchesSearch reports whether any of the fields contains the query, case-insensitively.
// An empty query matches everything.
func MatchesSearch(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
