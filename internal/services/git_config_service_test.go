package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alimgiray/gitident/internal/models"
	"github.com/gopasspw/gitconfig"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitCLIConfigWriterArgs(t *testing.T) {
	testCases := []struct {
		name     string
		scope    models.GitConfigScope
		key      string
		value    string
		expected []string
	}{
		{
			name:     "Global name",
			scope:    models.GitConfigScopeGlobal,
			key:      models.GitUserNameKey,
			value:    "The Octocat",
			expected: []string{"config", "--global", "--", "user.name", "The Octocat"},
		},
		{
			name:     "Local email",
			scope:    models.GitConfigScopeLocal,
			key:      models.GitUserEmailKey,
			value:    "583231+octocat@users.noreply.github.com",
			expected: []string{"config", "--local", "--", "user.email", "583231+octocat@users.noreply.github.com"},
		},
		{
			name:     "Value that looks like a flag",
			scope:    models.GitConfigScopeLocal,
			key:      models.GitUserNameKey,
			value:    "--unset",
			expected: []string{"config", "--local", "--", "user.name", "--unset"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotName string
			var gotArgs []string
			writer := NewGitCLIConfigWriterWithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
				gotName = name
				gotArgs = args
				return nil, nil
			})

			require.NoError(t, writer.SetConfig(context.Background(), tc.scope, tc.key, tc.value))
			assert.Equal(t, "git", gotName)
			assert.Equal(t, tc.expected, gotArgs)
		})
	}
}

func TestGitCLIConfigWriterFailure(t *testing.T) {
	exitErr := errors.New("exit status 255")
	writer := NewGitCLIConfigWriterWithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("error: could not lock config file .git/config: File exists\n"), exitErr
	})

	err := writer.SetConfig(context.Background(), models.GitConfigScopeLocal, models.GitUserNameKey, "bob")
	require.Error(t, err)
	assert.ErrorIs(t, err, exitErr)
	assert.Contains(t, err.Error(), "could not lock config file")
}

func TestNewConfigWriter(t *testing.T) {
	writer, err := NewConfigWriter("", ".git")
	require.NoError(t, err)
	assert.IsType(t, &GitCLIConfigWriter{}, writer)

	writer, err = NewConfigWriter(WriterNative, ".git")
	require.NoError(t, err)
	assert.IsType(t, &NativeConfigWriter{}, writer)

	_, err = NewConfigWriter("svn", ".git")
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.ErrorIs(t, err, ErrUnknownWriter)
}

func TestNativeConfigWriterRejectsUnknownScope(t *testing.T) {
	writer := NewNativeConfigWriter(t.TempDir())
	err := writer.SetConfig(context.Background(), models.GitConfigScope("worktree"), models.GitUserNameKey, "bob")
	assert.Error(t, err)
}

func TestNativeConfigWriterPersistsBothScopes(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	gitDir := t.TempDir()

	writer := NewNativeConfigWriter(gitDir)
	ctx := context.Background()

	testCases := []struct {
		name  string
		scope models.GitConfigScope
		file  string
		user  string
		email string
	}{
		{
			name:  "Local",
			scope: models.GitConfigScopeLocal,
			file:  filepath.Join(gitDir, "config"),
			user:  "Bob",
			email: "b@x",
		},
		{
			name:  "Global",
			scope: models.GitConfigScopeGlobal,
			file:  filepath.Join(home, ".config", "git", "config"),
			user:  "Global Bob",
			email: "global@x",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, writer.SetConfig(ctx, tc.scope, models.GitUserNameKey, tc.user))
			require.NoError(t, writer.SetConfig(ctx, tc.scope, models.GitUserEmailKey, tc.email))

			data, err := os.ReadFile(tc.file)
			require.NoError(t, err)
			assert.Contains(t, string(data), "[user]")
			assert.Contains(t, string(data), "name = "+tc.user)
			assert.Contains(t, string(data), "email = "+tc.email)
		})
	}

	cfg := gitconfig.New()
	cfg.LoadAll(gitDir)
	assert.Equal(t, "Bob", cfg.GetLocal(models.GitUserNameKey))
	assert.Equal(t, "b@x", cfg.GetLocal(models.GitUserEmailKey))
	assert.Equal(t, "Global Bob", cfg.GetGlobal(models.GitUserNameKey))
	assert.Equal(t, "global@x", cfg.GetGlobal(models.GitUserEmailKey))
}

func TestDryRunConfigWriter(t *testing.T) {
	log, hook := test.NewNullLogger()
	writer := NewDryRunConfigWriter(log)

	require.NoError(t, writer.SetConfig(context.Background(), models.GitConfigScopeGlobal, models.GitUserNameKey, "bob"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "user.name", entry.Data["key"])
	assert.Equal(t, "bob", entry.Data["value"])
}
