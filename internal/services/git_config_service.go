package services

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/alimgiray/gitident/internal/models"
	"github.com/gopasspw/gitconfig"
	"github.com/sirupsen/logrus"
)

// Writer names accepted by NewConfigWriter
const (
	WriterGit    = "git"
	WriterNative = "native"
)

// ConfigWriter persists a single git config value.
// Implementations are called sequentially; git takes a lock file per write and
// a concurrent second writer fails with "could not lock config file".
type ConfigWriter interface {
	SetConfig(ctx context.Context, scope models.GitConfigScope, key, value string) error
}

// NewConfigWriter builds the writer selected by name
func NewConfigWriter(name, gitDir string) (ConfigWriter, error) {
	switch name {
	case "", WriterGit:
		return NewGitCLIConfigWriter(), nil
	case WriterNative:
		return NewNativeConfigWriter(gitDir), nil
	default:
		return nil, &ValidationError{Err: fmt.Errorf("%w: %q", ErrUnknownWriter, name)}
	}
}

// CommandRunner runs an external command and returns its combined output
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// GitCLIConfigWriter shells out to `git config`
type GitCLIConfigWriter struct {
	run CommandRunner
}

func NewGitCLIConfigWriter() *GitCLIConfigWriter {
	return NewGitCLIConfigWriterWithRunner(runCommand)
}

func NewGitCLIConfigWriterWithRunner(run CommandRunner) *GitCLIConfigWriter {
	return &GitCLIConfigWriter{run: run}
}

func (w *GitCLIConfigWriter) SetConfig(ctx context.Context, scope models.GitConfigScope, key, value string) error {
	args := []string{"config", "--" + string(scope), "--", key, value}
	out, err := w.run(ctx, "git", args...)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("git config %s: %w: %s", key, err, msg)
		}
		return fmt.Errorf("git config %s: %w", key, err)
	}
	return nil
}

// NativeConfigWriter edits git config files in-process, for hosts without a git binary
type NativeConfigWriter struct {
	gitDir string
}

func NewNativeConfigWriter(gitDir string) *NativeConfigWriter {
	return &NativeConfigWriter{gitDir: gitDir}
}

func (w *NativeConfigWriter) SetConfig(ctx context.Context, scope models.GitConfigScope, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if scope != models.GitConfigScopeLocal && scope != models.GitConfigScopeGlobal {
		return fmt.Errorf("unsupported git config scope %q", scope)
	}

	// Reload per write so each call is a fresh read-modify-write of the file
	cfg := gitconfig.New()
	cfg.LoadAll(w.gitDir)

	if scope == models.GitConfigScopeLocal {
		return cfg.SetLocal(key, value)
	}
	return cfg.SetGlobal(key, value)
}

// DryRunConfigWriter logs the writes it would perform
type DryRunConfigWriter struct {
	log logrus.FieldLogger
}

func NewDryRunConfigWriter(log logrus.FieldLogger) *DryRunConfigWriter {
	return &DryRunConfigWriter{log: log}
}

func (w *DryRunConfigWriter) SetConfig(ctx context.Context, scope models.GitConfigScope, key, value string) error {
	w.log.WithFields(logrus.Fields{
		"scope": scope,
		"key":   key,
		"value": value,
	}).Info("Dry run: skipping git config write")
	return nil
}
