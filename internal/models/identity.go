package models

// GitConfigScope selects which git config file receives the identity
type GitConfigScope string

const (
	GitConfigScopeLocal  GitConfigScope = "local"
	GitConfigScopeGlobal GitConfigScope = "global"
)

// Git config keys written by a run
const (
	GitUserNameKey  = "user.name"
	GitUserEmailKey = "user.email"
)

// InvocationOptions are the inputs of a single identity setup run
type InvocationOptions struct {
	Username       string
	Local          bool
	UsePublicEmail bool
	GitNameTmpl    string
	FailoverName   string
	FailoverEmail  string
}

// Scope returns the config scope selected by the Local flag
func (o InvocationOptions) Scope() GitConfigScope {
	if o.Local {
		return GitConfigScopeLocal
	}
	return GitConfigScopeGlobal
}

// ResolvedIdentity is the name/email pair applied to git config
type ResolvedIdentity struct {
	GitUserName  string `json:"git_user_name"`
	GitUserEmail string `json:"git_user_email"`
}
