// Package identity turns the authentication payloads returned by the
// upstream API into the canonical session record.
//
// The upstream has shipped several response shapes over time: a flat
// object, the same object wrapped in "data" or "user", and a "data" object
// carrying the tokens next to a nested "user". DecodeAuthPayload maps each
// of them into a Payload; accessors then look at the layers in a fixed
// order (top level, data, user, data.user).
package identity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPayload is returned when a body matches none of the known
// authentication response shapes.
var ErrUnknownPayload = errors.New("unknown auth payload")

// text decodes JSON strings and silently ignores any other JSON type, so a
// single odd field cannot fail the whole payload.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = text(strings.TrimSpace(s))
	}
	return nil
}

// roleValue accepts either a string or an array of strings.
type roleValue struct {
	list   []string
	single string
}

func (r *roleValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == 'n' {
		return nil
	}
	if b[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil
		}
		for _, item := range raw {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				r.list = append(r.list, s)
			}
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		r.single = s
	}
	return nil
}

// fields is the union of identity attributes any known shape may carry.
type fields struct {
	Token            text `json:"token"`
	AccessToken      text `json:"access_token"`
	AccessTokenCamel text `json:"accessToken"`
	AuthToken        text `json:"auth_token"`
	AuthTokenCamel   text `json:"authToken"`

	RefreshToken      text `json:"refresh_token"`
	RefreshTokenCamel text `json:"refreshToken"`

	Email       text `json:"email"`
	Name        text `json:"name"`
	FullName    text `json:"full_name"`
	DisplayName text `json:"display_name"`
	Username    text `json:"username"`

	UserRole roleValue `json:"user_role"`
	Role     roleValue `json:"role"`
}

func (f *fields) tokens() []text {
	return []text{f.Token, f.AccessToken, f.AccessTokenCamel, f.AuthToken, f.AuthTokenCamel}
}

func (f *fields) refreshTokens() []text {
	return []text{f.RefreshToken, f.RefreshTokenCamel}
}

func (f *fields) names() []text {
	return []text{f.Name, f.FullName, f.DisplayName}
}

func (f *fields) empty() bool {
	for _, v := range append(append(f.tokens(), f.refreshTokens()...), f.Email, f.Username) {
		if v != "" {
			return false
		}
	}
	for _, v := range f.names() {
		if v != "" {
			return false
		}
	}
	return len(f.UserRole.list) == 0 && f.UserRole.single == "" &&
		len(f.Role.list) == 0 && f.Role.single == ""
}

// Payload is a decoded authentication response.
type Payload struct {
	layers []fields
}

// DecodeAuthPayload decodes raw into a Payload. It fails with
// ErrUnknownPayload if raw is not a JSON object or if no known location
// carries an identity attribute.
func DecodeAuthPayload(raw []byte) (*Payload, error) {
	top, err := objectAt(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownPayload, err)
	}

	p := &Payload{}
	p.add(raw)

	if data, ok := top["data"]; ok {
		if inner, err := objectAt(data); err == nil {
			p.add(data)
			if user, ok := inner["user"]; ok {
				if _, err := objectAt(user); err == nil {
					p.add(user)
				}
			}
		}
	}
	if user, ok := top["user"]; ok {
		if _, err := objectAt(user); err == nil {
			// the top-level user wrapper ranks before data.user
			p.insert(2, user)
		}
	}

	for i := range p.layers {
		if !p.layers[i].empty() {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: no identity fields", ErrUnknownPayload)
}

// NewPayload decodes a payload that is already held as a Go map (for
// example the "data" member of an envelope decoded elsewhere).
func NewPayload(v any) (*Payload, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownPayload, err)
	}
	return DecodeAuthPayload(b)
}

func objectAt(raw []byte) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("null object")
	}
	return m, nil
}

func (p *Payload) add(raw []byte) {
	var f fields
	_ = json.Unmarshal(raw, &f)
	p.layers = append(p.layers, f)
}

func (p *Payload) insert(at int, raw []byte) {
	var f fields
	_ = json.Unmarshal(raw, &f)
	if at > len(p.layers) {
		at = len(p.layers)
	}
	p.layers = append(p.layers[:at], append([]fields{f}, p.layers[at:]...)...)
}

func (p *Payload) first(pick func(f *fields) []text) string {
	if p == nil {
		return ""
	}
	for i := range p.layers {
		for _, v := range pick(&p.layers[i]) {
			if v != "" {
				return string(v)
			}
		}
	}
	return ""
}

// Email returns the first email found, or "".
func (p *Payload) Email() string {
	return p.first(func(f *fields) []text { return []text{f.Email} })
}

// Username returns the first username found, or "".
func (p *Payload) Username() string {
	return p.first(func(f *fields) []text { return []text{f.Username} })
}

// ExtractToken returns the first bearer token found, or "" when the payload
// carries none. A missing token is not an error.
func ExtractToken(p *Payload) string {
	return p.first((*fields).tokens)
}

// ExtractRefreshToken returns the first refresh token found, or "".
func ExtractRefreshToken(p *Payload) string {
	return p.first((*fields).refreshTokens)
}
