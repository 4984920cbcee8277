package main

import (
	"errors"

	"github.com/alimgiray/gitident/internal/models"
	"github.com/alimgiray/gitident/internal/services"
	"github.com/alimgiray/gitident/pkg/config"
	"github.com/alimgiray/gitident/pkg/logger"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitident",
		Short: "Configure git user.name and user.email from a GitHub account",
		Long: `gitident looks up a GitHub user and writes a matching git identity.

The email defaults to the account's noreply address. Every flag can also be
provided as an INPUT_<NAME> environment variable, so the binary works as a
GitHub Actions step.

Examples:
  # Global identity for the octocat account
  gitident --username=octocat

  # Repository identity with a custom name and a fallback when the API fails
  gitident --username=octocat --local --git-name-tmpl="{{name}} ({{login}})" \
    --failover-email=ci@example.com
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		if errors.Is(err, config.ErrInvalidBoolean) {
			return &services.ValidationError{Err: err}
		}
		return err
	}

	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	log := logger.GetLogger()

	lookup, err := services.NewGitHubUserService(cfg.GitHub.Token, cfg.GitHub.APIURL)
	if err != nil {
		return err
	}

	var writer services.ConfigWriter
	if cfg.DryRun {
		writer = services.NewDryRunConfigWriter(log)
	} else {
		writer, err = services.NewConfigWriter(cfg.Git.Writer, cfg.Git.Dir)
		if err != nil {
			return err
		}
	}

	outputs := services.NewOutputService(cfg.Output.File, cmd.OutOrStdout())
	setupService := services.NewIdentitySetupService(lookup, writer, outputs, lookup.APIBaseURL(), log)

	_, err = setupService.Run(cmd.Context(), optionsFromConfig(cfg.Inputs))
	return err
}

func optionsFromConfig(inputs config.InputsConfig) models.InvocationOptions {
	return models.InvocationOptions{
		Username:       inputs.Username,
		Local:          inputs.Local,
		UsePublicEmail: inputs.UsePublicEmail,
		GitNameTmpl:    inputs.GitNameTmpl,
		FailoverName:   inputs.FailoverName,
		FailoverEmail:  inputs.FailoverEmail,
	}
}
