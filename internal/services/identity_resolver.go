package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alimgiray/gitident/internal/models"
)

var templatePlaceholder = regexp.MustCompile(`\{\{(\w+)\}\}`)

// ResolveIdentity derives the git user name and email from a user record.
// The record is read only; it may be sanitized before or after the call.
func ResolveIdentity(user models.UserRecord, opts models.InvocationOptions) models.ResolvedIdentity {
	return models.ResolvedIdentity{
		GitUserName:  resolveName(user, opts),
		GitUserEmail: resolveEmail(user, opts),
	}
}

func resolveName(user models.UserRecord, opts models.InvocationOptions) string {
	if !user.HasID() {
		if opts.FailoverName != "" {
			return opts.FailoverName
		}
		return opts.Username
	}

	if opts.GitNameTmpl != "" {
		return RenderNameTemplate(opts.GitNameTmpl, user)
	}

	// Blank check only; the name is returned untrimmed
	if name, ok := user.StringField("name"); ok && strings.TrimSpace(name) != "" {
		return name
	}

	return user.Login()
}

func resolveEmail(user models.UserRecord, opts models.InvocationOptions) string {
	if !user.HasID() {
		return opts.FailoverEmail
	}

	if opts.UsePublicEmail {
		if email, ok := user.StringField("email"); ok && email != "" {
			return email
		}
	}

	return NoReplyEmail(user)
}

// RenderNameTemplate replaces every {{field}} placeholder with the record's field text
func RenderNameTemplate(tmpl string, user models.UserRecord) string {
	return templatePlaceholder.ReplaceAllStringFunc(tmpl, func(match string) string {
		field := templatePlaceholder.FindStringSubmatch(match)[1]
		return user.FieldText(field)
	})
}

// NoReplyEmail builds the {id}+{login}@users.noreply.github.com address
func NoReplyEmail(user models.UserRecord) string {
	return fmt.Sprintf("%s+%s@%s", user.FieldText("id"), user.FieldText("login"), models.NoReplyDomain)
}
