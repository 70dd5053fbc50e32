package devapi

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

const (
	roleAdmin    = "admin"
	roleReporter = "reporter"
	roleEndUser  = "enduser"
)

// Response shapes of the code verification endpoint. Real deployments of
// the API have returned each of them.
const (
	ShapeFlat   = "flat"
	ShapeData   = "data"
	ShapeNested = "nested"
	ShapeUser   = "user"
	ShapeRotate = "rotate"
)

var rotation = []string{ShapeNested, ShapeFlat, ShapeData, ShapeUser}

func (s *Server) roleFor(email string) string {
	match := func(list []string) bool {
		return slices.ContainsFunc(list, func(e string) bool { return strings.EqualFold(strings.TrimSpace(e), email) })
	}
	switch {
	case match(s.cfg.Admins):
		return roleAdmin
	case match(s.cfg.Reporters):
		return roleReporter
	}
	return roleEndUser
}

func newRefreshToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

type issued struct {
	ID           string
	Email        string
	Role         string
	Token        string
	RefreshToken string
}

func (s *Server) nextShape() string {
	if s.cfg.AuthShape != ShapeRotate && s.cfg.AuthShape != "" {
		return s.cfg.AuthShape
	}
	n := s.shapes.Add(1) - 1
	return rotation[n%uint64(len(rotation))]
}

// authResponse renders a successful verification in the configured shape.
// Role spelling varies with the shape as well.
func (s *Server) authResponse(a issued) map[string]any {
	upper := []string{strings.ToUpper(a.Role)}

	switch s.nextShape() {
	case ShapeFlat:
		return map[string]any{
			"success":       true,
			"id":            a.ID,
			"token":         a.Token,
			"refresh_token": a.RefreshToken,
			"email":         a.Email,
			"user_role":     upper,
		}
	case ShapeData:
		return map[string]any{
			"success": true,
			"data": map[string]any{
				"id":           a.ID,
				"accessToken":  a.Token,
				"refreshToken": a.RefreshToken,
				"email":        a.Email,
				"role":         a.Role,
			},
		}
	case ShapeUser:
		return map[string]any{
			"success": true,
			"user": map[string]any{
				"id":         a.ID,
				"auth_token": a.Token,
				"email":      a.Email,
				"role":       upper,
			},
		}
	default:
		return map[string]any{
			"success": true,
			"data": map[string]any{
				"token":         a.Token,
				"refresh_token": a.RefreshToken,
				"user": map[string]any{
					"id":        a.ID,
					"email":     a.Email,
					"user_role": a.Role,
				},
			},
		}
	}
}
