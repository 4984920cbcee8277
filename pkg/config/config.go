package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Inputs InputsConfig
	GitHub GitHubConfig
	Git    GitConfig
	Output OutputConfig
	Log    LogConfig
	DryRun bool
}

// InputsConfig holds the step inputs of an identity setup run
type InputsConfig struct {
	Username       string
	Local          bool
	UsePublicEmail bool
	GitNameTmpl    string
	FailoverName   string
	FailoverEmail  string
}

type GitHubConfig struct {
	Token  string
	APIURL string
}

type GitConfig struct {
	Writer string
	Dir    string
}

type OutputConfig struct {
	File string
}

type LogConfig struct {
	Level  string
	Format string
}

var AppConfig *Config

// ErrInvalidBoolean is returned for boolean inputs outside true/True/TRUE/false/False/FALSE
var ErrInvalidBoolean = errors.New("invalid boolean input")

// RegisterFlags declares every configuration key as a command line flag
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("username", "", "GitHub username to resolve (required)")
	fs.Bool("local", false, "Write to the repository config instead of the global one")
	fs.Bool("use-public-email", false, "Use the public profile email when the user has one")
	fs.String("git-name-tmpl", "", "Template for user.name, e.g. '{{name}} ({{login}})'")
	fs.String("failover-name", "", "Name to use when the lookup fails")
	fs.String("failover-email", "", "Email to use when the lookup fails")
	fs.String("token", "", "GitHub token used for the lookup")
	fs.String("api-url", "https://api.github.com/", "GitHub REST API base URL")
	fs.String("writer", "git", "Git config writer: git or native")
	fs.String("git-dir", ".git", "Repository git directory used by the native writer")
	fs.String("output-file", "", "File receiving step outputs (defaults to stdout)")
	fs.String("log-level", "info", "Log level: debug, info, warn or error")
	fs.String("log-format", "text", "Log format: text or json")
	fs.Bool("dry-run", false, "Resolve and report the identity without writing git config")
}

// Load loads configuration from flags, .env file and environment variables.
// Inputs are also read from INPUT_<NAME> variables the way a GitHub Actions runner exposes them.
func Load(fs *pflag.FlagSet) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("INPUT")
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	envBindings := map[string][]string{
		"token":       {"INPUT_TOKEN", "GITHUB_TOKEN"},
		"api-url":     {"INPUT_API-URL", "GITHUB_API_URL"},
		"output-file": {"GITHUB_OUTPUT"},
		"log-level":   {"LOG_LEVEL"},
		"log-format":  {"LOG_FORMAT"},
	}
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	bools := map[string]bool{}
	for _, key := range []string{"local", "use-public-email", "dry-run"} {
		value, err := getBool(v, key)
		if err != nil {
			return nil, err
		}
		bools[key] = value
	}

	AppConfig = &Config{
		Inputs: InputsConfig{
			Username:       strings.TrimSpace(v.GetString("username")),
			Local:          bools["local"],
			UsePublicEmail: bools["use-public-email"],
			GitNameTmpl:    strings.TrimSpace(v.GetString("git-name-tmpl")),
			FailoverName:   strings.TrimSpace(v.GetString("failover-name")),
			FailoverEmail:  strings.TrimSpace(v.GetString("failover-email")),
		},
		GitHub: GitHubConfig{
			Token:  v.GetString("token"),
			APIURL: normalizeAPIURL(v.GetString("api-url")),
		},
		Git: GitConfig{
			Writer: strings.ToLower(strings.TrimSpace(v.GetString("writer"))),
			Dir:    v.GetString("git-dir"),
		},
		Output: OutputConfig{
			File: v.GetString("output-file"),
		},
		Log: LogConfig{
			Level:  v.GetString("log-level"),
			Format: v.GetString("log-format"),
		},
		DryRun: bools["dry-run"],
	}

	return AppConfig, nil
}

// getBool accepts only the YAML 1.2 core boolean spellings. Anything else is an
// error rather than false, so a typo cannot silently select the global config.
func getBool(v *viper.Viper, key string) (bool, error) {
	raw := strings.TrimSpace(v.GetString(key))
	switch raw {
	case "", "false", "False", "FALSE":
		return false, nil
	case "true", "True", "TRUE":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s=%q (use true or false)", ErrInvalidBoolean, key, raw)
	}
}

// normalizeAPIURL makes sure the API URL ends with a slash so it can be used as a prefix
func normalizeAPIURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "https://api.github.com/"
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return raw
}
