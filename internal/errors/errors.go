package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/logger"
)

var (
	// ErrNotInitialized is returned when the store has never been created
	ErrNotInitialized = stderrors.New("storage not initialized, run 'habitual init' first")
	// ErrNotLoaded is returned when a store is used before Load or Init
	ErrNotLoaded = stderrors.New("storage not loaded")
	// ErrAlreadyInitialized is returned by Init when the store already exists
	ErrAlreadyInitialized = stderrors.New("storage already initialized")
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a follow-up suggestion for errors the user can fix themselves
func Hint(err error) string {
	switch {
	case stderrors.Is(err, ErrNotInitialized):
		return "Run 'habitual init' to create your habit store."
	case stderrors.Is(err, ErrAlreadyInitialized):
		return "Use 'habitual init --force' to start over."
	default:
		return ""
	}
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		if hint := Hint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "%s\n", hint)
		}
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
