package identity

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrijs2005/newsclient/internal/client/models"
)

var roleTable = map[string]models.Role{
	"admin":    models.RoleAdmin,
	"reporter": models.RoleReporter,
	"enduser":  models.RoleEndUser,
	"user":     models.RoleEndUser,
}

// randomIDPattern matches usernames that are generated hex identifiers
// rather than something a person would recognise.
var randomIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{6,}$`)

// MapRole maps a raw upstream role string onto the known roles. Unknown and
// empty values map to enduser.
func MapRole(raw string) models.Role {
	if r, ok := roleTable[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return r
	}
	return models.RoleEndUser
}

// NormalizeRole resolves the user's role. It tries, in order, the first
// element of an array-valued user_role, a string-valued user_role and the
// generic role field. It returns the mapped role and the raw value it was
// derived from.
func NormalizeRole(p *Payload) (models.Role, string) {
	if p == nil {
		return models.RoleEndUser, ""
	}
	rules := []func(f *fields) (string, bool){
		func(f *fields) (string, bool) {
			if len(f.UserRole.list) > 0 {
				return f.UserRole.list[0], true
			}
			return "", false
		},
		func(f *fields) (string, bool) { return f.UserRole.single, f.UserRole.single != "" },
		func(f *fields) (string, bool) {
			if f.Role.single != "" {
				return f.Role.single, true
			}
			if len(f.Role.list) > 0 {
				return f.Role.list[0], true
			}
			return "", false
		},
	}
	for _, rule := range rules {
		for i := range p.layers {
			if raw, ok := rule(&p.layers[i]); ok {
				return MapRole(raw), raw
			}
		}
	}
	return models.RoleEndUser, ""
}

// NormalizeDisplayName picks a non-empty display name: explicit name
// fields first, then a name derived from the email, then a username that
// is not a random hex id, then "User".
func NormalizeDisplayName(p *Payload) string {
	if name := p.first((*fields).names); name != "" {
		return name
	}
	if name := NameFromEmail(p.Email()); name != "" {
		return name
	}
	if u := p.Username(); u != "" && !randomIDPattern.MatchString(u) {
		return upperFirst(u)
	}
	return models.DefaultUserName
}

// NameFromEmail derives a display name from the local part of an email:
// digits are dropped, '.', '_' and '-' become spaces and every word is
// title-cased. "john.doe123@x.com" becomes "John Doe". It returns "" when
// nothing usable remains.
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	if local == "" {
		return ""
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsDigit(r):
			return -1
		case r == '.' || r == '_' || r == '-':
			return ' '
		}
		return r
	}, local)

	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return ""
	}
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// EnsureName fills an empty user name from the email, falling back to
// "User". It reports whether the record was changed.
func EnsureName(u *models.User) bool {
	if strings.TrimSpace(u.Name) != "" {
		return false
	}
	u.Name = NameFromEmail(u.Email)
	if u.Name == "" {
		u.Name = models.DefaultUserName
	}
	return true
}

// Normalize builds the canonical session record from a decoded payload.
func Normalize(p *Payload) models.Session {
	role, original := NormalizeRole(p)
	return models.Session{
		User: models.User{
			Email:        p.Email(),
			Name:         NormalizeDisplayName(p),
			Role:         role,
			OriginalRole: original,
		},
		Token:        ExtractToken(p),
		RefreshToken: ExtractRefreshToken(p),
	}
}
