package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// notesHeader is shown above the notes being edited and stripped afterwards.
const notesHeader = "# Notes for %s\n# Lines starting with '#' are ignored. Save an empty file to clear the notes.\n"

// EditNotes opens the notes for a card in $EDITOR and returns the edited
// text with comment lines and surrounding blank lines removed.
func EditNotes(cardName, notes string) (string, error) {
	content := fmt.Sprintf(notesHeader, cardName) + notes
	if notes != "" && !strings.HasSuffix(notes, "\n") {
		content += "\n"
	}

	edited, err := EditInEditor([]byte(content), ".txt")
	if err != nil {
		return "", err
	}
	return stripComments(string(edited)), nil
}

// stripComments drops lines beginning with '#' and trims blank lines at
// both ends.
func stripComments(s string) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t\r"))
	}
	return strings.Trim(strings.Join(kept, "\n"), "\n")
}

// EditInEditor opens content in $EDITOR and returns modified content.
// The suffix is used for the temporary file.
// Returns error if EDITOR/VISUAL not set or editor exits non-zero.
func EditInEditor(content []byte, suffix string) ([]byte, error) {
	editor := getEditor()
	if editor == "" {
		return nil, fmt.Errorf("EDITOR not set. Set it or pass the notes as an argument instead of -i")
	}

	tmpFile, err := os.CreateTemp("", "binder-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := runEditor(editor, tmpPath); err != nil {
		return nil, err
	}

	result, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}

	return result, nil
}

// getEditor returns the editor command from environment.
// Checks VISUAL first (for graphical editors), then EDITOR.
func getEditor() string {
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	return os.Getenv("EDITOR")
}

// runEditor executes the editor with the given file path.
func runEditor(editor, path string) error {
	// Split editor into command and args (e.g., "code --wait")
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("empty editor command")
	}

	args := append(parts[1:], path)
	cmd := exec.Command(parts[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run editor: %w", err)
	}

	return nil
}
