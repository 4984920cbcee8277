package services

import (
	"encoding/json"
	"testing"

	"github.com/alimgiray/gitident/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestResolveIdentity(t *testing.T) {
	testCases := []struct {
		name          string
		user          models.UserRecord
		opts          models.InvocationOptions
		expectedName  string
		expectedEmail string
	}{
		{
			name:          "Failover name and email",
			user:          models.NewFallbackUserRecord("bob"),
			opts:          models.InvocationOptions{Username: "bob", FailoverName: "Bob Builder", FailoverEmail: "bob@example.com"},
			expectedName:  "Bob Builder",
			expectedEmail: "bob@example.com",
		},
		{
			name:          "Failover without name uses username",
			user:          models.NewFallbackUserRecord("bob"),
			opts:          models.InvocationOptions{Username: "bob", FailoverEmail: "bob@example.com", GitNameTmpl: "{{login}}!"},
			expectedName:  "bob",
			expectedEmail: "bob@example.com",
		},
		{
			name:          "Template",
			user:          models.UserRecord{"id": 42, "login": "bob"},
			opts:          models.InvocationOptions{Username: "bob", GitNameTmpl: "{{login}}-{{id}}"},
			expectedName:  "bob-42",
			expectedEmail: "42+bob@users.noreply.github.com",
		},
		{
			name:          "Template with missing field",
			user:          models.UserRecord{"id": 42, "login": "bob"},
			opts:          models.InvocationOptions{Username: "bob", GitNameTmpl: "{{name}} ({{login}})"},
			expectedName:  "undefined (bob)",
			expectedEmail: "42+bob@users.noreply.github.com",
		},
		{
			name:          "Name is returned untrimmed",
			user:          models.UserRecord{"id": 7, "login": "alice", "name": "  Alice A.  "},
			opts:          models.InvocationOptions{Username: "alice"},
			expectedName:  "  Alice A.  ",
			expectedEmail: "7+alice@users.noreply.github.com",
		},
		{
			name:          "Blank name falls back to login",
			user:          models.UserRecord{"id": 7, "login": "alice", "name": "   "},
			opts:          models.InvocationOptions{Username: "alice"},
			expectedName:  "alice",
			expectedEmail: "7+alice@users.noreply.github.com",
		},
		{
			name:          "Null name falls back to login",
			user:          models.UserRecord{"id": 7, "login": "alice", "name": nil},
			opts:          models.InvocationOptions{Username: "alice"},
			expectedName:  "alice",
			expectedEmail: "7+alice@users.noreply.github.com",
		},
		{
			name:          "No name and no login",
			user:          models.UserRecord{"id": 7},
			opts:          models.InvocationOptions{Username: "alice"},
			expectedName:  "",
			expectedEmail: "7+undefined@users.noreply.github.com",
		},
		{
			name:          "Public email ignored when disabled",
			user:          models.UserRecord{"id": 7, "login": "alice", "email": "a@example.com"},
			opts:          models.InvocationOptions{Username: "alice"},
			expectedName:  "alice",
			expectedEmail: "7+alice@users.noreply.github.com",
		},
		{
			name:          "Public email used when enabled",
			user:          models.UserRecord{"id": 7, "login": "alice", "email": "a@example.com"},
			opts:          models.InvocationOptions{Username: "alice", UsePublicEmail: true},
			expectedName:  "alice",
			expectedEmail: "a@example.com",
		},
		{
			name:          "Public email enabled but hidden",
			user:          models.UserRecord{"id": json.Number("583231"), "login": "octocat", "email": nil},
			opts:          models.InvocationOptions{Username: "octocat", UsePublicEmail: true},
			expectedName:  "octocat",
			expectedEmail: "583231+octocat@users.noreply.github.com",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			identity := ResolveIdentity(tc.user, tc.opts)
			assert.Equal(t, tc.expectedName, identity.GitUserName)
			assert.Equal(t, tc.expectedEmail, identity.GitUserEmail)
		})
	}
}

func TestRenderNameTemplate(t *testing.T) {
	user := models.UserRecord{"id": json.Number("42"), "login": "bob", "company": "@acme", "bio": nil}

	assert.Equal(t, "bob @acme", RenderNameTemplate("{{login}} {{company}}", user))
	assert.Equal(t, "null", RenderNameTemplate("{{bio}}", user))
	assert.Equal(t, "{{ login }}", RenderNameTemplate("{{ login }}", user))
	assert.Equal(t, "{bob}", RenderNameTemplate("{{{login}}}", user))
	assert.Equal(t, "no placeholders", RenderNameTemplate("no placeholders", user))
}
