package services

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Output names reported by a run
const (
	OutputUserJSON     = "user-json"
	OutputGitUserName  = "git-user-name"
	OutputGitUserEmail = "git-user-email"
)

// OutputReporter publishes named step outputs
type OutputReporter interface {
	SetOutput(name, value string) error
}

// OutputService appends outputs to a GITHUB_OUTPUT style file, or prints
// name=value lines when no file is configured.
type OutputService struct {
	filePath     string
	stdout       io.Writer
	newDelimiter func() string
}

func NewOutputService(filePath string, stdout io.Writer) *OutputService {
	return &OutputService{
		filePath: filePath,
		stdout:   stdout,
		newDelimiter: func() string {
			return "ghadelimiter_" + uuid.New().String()
		},
	}
}

func (s *OutputService) SetOutput(name, value string) error {
	if s.filePath == "" {
		_, err := fmt.Fprintf(s.stdout, "%s=%s\n", name, value)
		return err
	}

	record, err := s.fileRecord(name, value)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(record); err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	return nil
}

// fileRecord formats a heredoc entry so values may span multiple lines
func (s *OutputService) fileRecord(name, value string) (string, error) {
	delimiter := s.newDelimiter()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return "", fmt.Errorf("output %s collides with delimiter %s", name, delimiter)
	}
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter), nil
}
