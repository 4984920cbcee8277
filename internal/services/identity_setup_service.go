package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alimgiray/gitident/internal/models"
	"github.com/sirupsen/logrus"
)

// IdentitySetupService resolves a GitHub user's identity and writes it to git config
type IdentitySetupService struct {
	lookup     UserLookup
	writer     ConfigWriter
	outputs    OutputReporter
	apiBaseURL string
	log        logrus.FieldLogger
	now        func() time.Time
}

// SetupResult describes a completed run
type SetupResult struct {
	User     models.UserRecord
	UserJSON string
	Identity models.ResolvedIdentity
	Failover bool
	Elapsed  time.Duration
}

func NewIdentitySetupService(
	lookup UserLookup,
	writer ConfigWriter,
	outputs OutputReporter,
	apiBaseURL string,
	log logrus.FieldLogger,
) *IdentitySetupService {
	return &IdentitySetupService{
		lookup:     lookup,
		writer:     writer,
		outputs:    outputs,
		apiBaseURL: apiBaseURL,
		log:        log,
		now:        time.Now,
	}
}

// ValidateOptions trims the string inputs and checks the failover pair
func ValidateOptions(opts models.InvocationOptions) (models.InvocationOptions, error) {
	opts.Username = strings.TrimSpace(opts.Username)
	opts.GitNameTmpl = strings.TrimSpace(opts.GitNameTmpl)
	opts.FailoverName = strings.TrimSpace(opts.FailoverName)
	opts.FailoverEmail = strings.TrimSpace(opts.FailoverEmail)
	if opts.Username == "" {
		return opts, &ValidationError{Err: ErrMissingUsername}
	}
	if opts.FailoverName != "" && opts.FailoverEmail == "" {
		return opts, &ValidationError{Err: ErrFailoverEmailRequired}
	}
	return opts, nil
}

// Run performs one identity setup. Validation happens before any collaborator
// is called. A failed git config write is not rolled back.
func (s *IdentitySetupService) Run(ctx context.Context, opts models.InvocationOptions) (*SetupResult, error) {
	startTime := s.now()

	opts, err := ValidateOptions(opts)
	if err != nil {
		return nil, err
	}

	user, failover, err := s.fetchUser(ctx, opts)
	if err != nil {
		return nil, err
	}

	if removed := user.Sanitize(s.apiBaseURL); removed > 0 {
		s.log.Debugf("Removed %d API URL fields from user record", removed)
	}

	identity := ResolveIdentity(user, opts)

	userJSON, err := user.JSON()
	if err != nil {
		return nil, err
	}

	if err := s.report(userJSON, identity); err != nil {
		return nil, err
	}

	s.log.Info("Setting up Git user configuration...")

	// Never in parallel: git config locks the file for each write
	scope := opts.Scope()
	if err := s.writer.SetConfig(ctx, scope, models.GitUserNameKey, identity.GitUserName); err != nil {
		return nil, &MutationFailure{Key: models.GitUserNameKey, Err: err}
	}
	if err := s.writer.SetConfig(ctx, scope, models.GitUserEmailKey, identity.GitUserEmail); err != nil {
		return nil, &MutationFailure{Key: models.GitUserEmailKey, Err: err}
	}

	elapsed := s.now().Sub(startTime)
	s.log.WithFields(logrus.Fields{
		"scope":    scope,
		"failover": failover,
	}).Infof("Successfully configured Git user.name and user.email in %.2f ms", float64(elapsed.Microseconds())/1000)

	return &SetupResult{
		User:     user,
		UserJSON: userJSON,
		Identity: identity,
		Failover: failover,
		Elapsed:  elapsed,
	}, nil
}

// fetchUser looks the user up, falling back to {login: username} when a failover email is set
func (s *IdentitySetupService) fetchUser(ctx context.Context, opts models.InvocationOptions) (models.UserRecord, bool, error) {
	s.log.Infof("Fetching GitHub user details for '%s'", opts.Username)

	user, err := s.lookup.LookupUser(ctx, opts.Username)
	if err == nil {
		return user, false, nil
	}

	var failure *LookupFailure
	if !errors.As(err, &failure) {
		failure = &LookupFailure{Username: opts.Username, Message: err.Error(), Err: err}
	}

	s.log.Errorf("Error fetching user data: %d: %s", failure.Status, failure.Message)
	s.log.WithError(failure.Err).Debug("Lookup failure details")

	if opts.FailoverEmail == "" {
		return nil, false, &LookupFailure{
			Username: failure.Username,
			Status:   failure.Status,
			Message:  ErrNoFailoverEmail.Error(),
			Err:      errors.Join(ErrNoFailoverEmail, failure),
		}
	}

	return models.NewFallbackUserRecord(opts.Username), true, nil
}

func (s *IdentitySetupService) report(userJSON string, identity models.ResolvedIdentity) error {
	outputs := []struct {
		name  string
		value string
	}{
		{OutputUserJSON, userJSON},
		{OutputGitUserName, identity.GitUserName},
		{OutputGitUserEmail, identity.GitUserEmail},
	}
	for _, o := range outputs {
		if err := s.outputs.SetOutput(o.name, o.value); err != nil {
			return fmt.Errorf("failed to set output %s: %w", o.name, err)
		}
	}
	return nil
}
