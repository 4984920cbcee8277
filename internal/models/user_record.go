package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultAPIBaseURL is the public GitHub REST endpoint
const DefaultAPIBaseURL = "https://api.github.com/"

// NoReplyDomain is the host GitHub uses for privacy-preserving commit emails
const NoReplyDomain = "users.noreply.github.com"

// UndefinedField is rendered for template placeholders that name a field the record lacks
const UndefinedField = "undefined"

// UserRecord holds the fields returned by the user lookup, or the fallback record
// synthesized when the lookup failed. Numbers are kept as json.Number so ids
// render without float formatting.
type UserRecord map[string]any

// NewFallbackUserRecord builds the record used when the lookup failed
func NewFallbackUserRecord(username string) UserRecord {
	return UserRecord{"login": username}
}

// DecodeUserRecord parses a JSON object into a UserRecord
func DecodeUserRecord(data []byte) (UserRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var record UserRecord
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode user record: %w", err)
	}
	if record == nil {
		record = UserRecord{}
	}
	return record, nil
}

// HasID reports whether the record carries a usable id, i.e. came from a real lookup
func (r UserRecord) HasID() bool {
	v, ok := r["id"]
	return ok && truthy(v)
}

// StringField returns the field if it holds a string
func (r UserRecord) StringField(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}

// Login returns the login field or an empty string
func (r UserRecord) Login() string {
	s, _ := r.StringField("login")
	return s
}

// FieldText renders a field the way it is substituted into templates.
// Missing keys render as UndefinedField and null values as "null".
func (r UserRecord) FieldText(key string) string {
	v, ok := r[key]
	if !ok {
		return UndefinedField
	}
	return valueText(v)
}

// Sanitize removes every *url field that points back into the API itself.
// It returns the number of removed fields.
func (r UserRecord) Sanitize(apiBaseURL string) int {
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}

	removed := 0
	for key, value := range r {
		if !strings.HasSuffix(key, "url") {
			continue
		}
		s, ok := value.(string)
		if !ok || !strings.HasPrefix(s, apiBaseURL) {
			continue
		}
		delete(r, key)
		removed++
	}
	return removed
}

// JSON serializes the record with keys in sorted order. HTML characters are
// left unescaped so bios and company names come out as the API sent them.
func (r UserRecord) JSON() (string, error) {
	out, err := encodeJSON(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode user record: %w", err)
	}
	return out, nil
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func valueText(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case map[string]any, []any:
		out, err := encodeJSON(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return out
	default:
		return fmt.Sprint(val)
	}
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}
