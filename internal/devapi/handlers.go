package devapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/newsclient/internal/client/identity"
	"github.com/dmitrijs2005/newsclient/internal/client/models"
	"github.com/dmitrijs2005/newsclient/internal/devapi/auth"
	"github.com/dmitrijs2005/newsclient/internal/devapi/store"
)

const dateLayout = "2006-01-02"

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

func (s *Server) sendOTP(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(email) {
		return echo.NewHTTPError(http.StatusBadRequest, "A valid email is required")
	}

	code, err := s.otp.Issue(email)
	if err != nil {
		return err
	}
	s.log.Info(c.Request().Context(), "one-time code issued", "email", email, "code", code)
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "OTP sent to your email"})
}

func (s *Server) verifyOTP(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.otp.Verify(email, req.OTP); err != nil {
		if errors.Is(err, auth.ErrCodeInvalid) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired code")
		}
		return err
	}

	role := s.roleFor(email)
	id := s.store.UserID(email)
	token, err := auth.GenerateToken(id, email, role, s.secret, s.cfg.AccessTokenTTL)
	if err != nil {
		return err
	}
	a := issued{ID: id, Email: email, Role: role, Token: token, RefreshToken: newRefreshToken()}
	return c.JSON(http.StatusOK, s.authResponse(a))
}

func (s *Server) verifyToken(c echo.Context) error {
	claims := claimsFrom(c)
	return c.JSON(http.StatusOK, envelope{Success: true, Data: map[string]any{
		"email":     claims.Email,
		"user_role": claims.Role,
	}})
}

func (s *Server) publicCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: s.store.Categories(true)})
}

func (s *Server) listCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: s.store.Categories(false)})
}

func bindCategory(c echo.Context) (models.Category, error) {
	var cat models.Category
	if err := c.Bind(&cat); err != nil {
		return cat, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	cat.Name = strings.TrimSpace(cat.Name)
	cat.Slug = strings.TrimSpace(cat.Slug)
	if cat.Name == "" || cat.Slug == "" {
		return cat, echo.NewHTTPError(http.StatusBadRequest, "Name and slug are required")
	}
	return cat, nil
}

func storeError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	case errors.Is(err, store.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "A category with this slug already exists")
	}
	return err
}

func (s *Server) createCategory(c echo.Context) error {
	cat, err := bindCategory(c)
	if err != nil {
		return err
	}
	cat.ID = ""
	out, err := s.store.CreateCategory(cat)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusCreated, envelope{Success: true, Data: out})
}

func (s *Server) updateCategory(c echo.Context) error {
	cat, err := bindCategory(c)
	if err != nil {
		return err
	}
	if cat.ID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Category id is required")
	}
	out, err := s.store.UpdateCategory(cat)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: out})
}

func (s *Server) deleteCategory(c echo.Context) error {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.Bind(&req); err != nil || req.ID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Category id is required")
	}
	if err := s.store.DeleteCategory(req.ID); err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Category deleted"})
}

func (s *Server) listComments(c echo.Context) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: s.store.Comments()})
}

func (s *Server) createComment(c echo.Context) error {
	var req struct {
		NewsID  string `json:"news_id"`
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.NewsID = strings.TrimSpace(req.NewsID)
	req.Content = strings.TrimSpace(req.Content)
	if req.NewsID == "" || req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "news_id and content are required")
	}

	author := identity.NameFromEmail(claimsFrom(c).Email)
	out := s.store.AddComment(req.NewsID, author, req.Content)
	return c.JSON(http.StatusCreated, envelope{Success: true, Data: out})
}

func (s *Server) edition(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	if date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
	}
	ed, err := s.store.Edition(date)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "No e-paper is available for that date")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: ed})
}
