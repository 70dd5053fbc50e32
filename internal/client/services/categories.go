package services

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dmitrijs2005/newsclient/internal/client/client"
	"github.com/dmitrijs2005/newsclient/internal/client/models"
	"github.com/dmitrijs2005/newsclient/internal/logging"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type CategoryService interface {
	ListPublic(ctx context.Context) Result[[]models.Category]
	List(ctx context.Context) Result[[]models.Category]
	Create(ctx context.Context, c models.Category) Result[models.Category]
	Update(ctx context.Context, c models.Category) Result[models.Category]
	Delete(ctx context.Context, id string) Result[struct{}]
}

type categoryService struct {
	client client.Client
	store  SessionStore
	log    logging.Logger
}

func NewCategoryService(c client.Client, store SessionStore, log logging.Logger) CategoryService {
	return &categoryService{client: c, store: store, log: log}
}

func (s *categoryService) ListPublic(ctx context.Context) Result[[]models.Category] {
	cats, err := s.client.ListPublicCategories(ctx)
	if err != nil {
		return fail[[]models.Category](err)
	}
	return ok(cats)
}

func (s *categoryService) List(ctx context.Context) Result[[]models.Category] {
	if _, err := s.store.RequireRole(ctx, models.RoleAdmin); err != nil {
		return fail[[]models.Category](err)
	}
	cats, err := s.client.ListCategories(ctx)
	if err != nil {
		return fail[[]models.Category](err)
	}
	return ok(cats)
}

func (s *categoryService) Create(ctx context.Context, c models.Category) Result[models.Category] {
	if err := prepareCategory(&c); err != nil {
		return fail[models.Category](err)
	}
	if _, err := s.store.RequireRole(ctx, models.RoleAdmin); err != nil {
		return fail[models.Category](err)
	}
	out, err := s.client.CreateCategory(ctx, c)
	if err != nil {
		s.log.Warn(ctx, "create category failed", "slug", c.Slug, "error", err)
		return fail[models.Category](err)
	}
	return ok(out)
}

func (s *categoryService) Update(ctx context.Context, c models.Category) Result[models.Category] {
	c.ID = strings.TrimSpace(c.ID)
	if c.ID == "" {
		return fail[models.Category](invalid("Category id is required"))
	}
	if err := prepareCategory(&c); err != nil {
		return fail[models.Category](err)
	}
	if _, err := s.store.RequireRole(ctx, models.RoleAdmin); err != nil {
		return fail[models.Category](err)
	}
	out, err := s.client.UpdateCategory(ctx, c)
	if err != nil {
		s.log.Warn(ctx, "update category failed", "id", c.ID, "error", err)
		return fail[models.Category](err)
	}
	return ok(out)
}

func (s *categoryService) Delete(ctx context.Context, id string) Result[struct{}] {
	id = strings.TrimSpace(id)
	if id == "" {
		return fail[struct{}](invalid("Category id is required"))
	}
	if _, err := s.store.RequireRole(ctx, models.RoleAdmin); err != nil {
		return fail[struct{}](err)
	}
	if err := s.client.DeleteCategory(ctx, id); err != nil {
		s.log.Warn(ctx, "delete category failed", "id", id, "error", err)
		return fail[struct{}](err)
	}
	return ok(struct{}{})
}

func prepareCategory(c *models.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	if c.Name == "" {
		return invalid("Category name is required")
	}

	c.Slug = strings.TrimSpace(c.Slug)
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if !slugPattern.MatchString(c.Slug) {
		return invalid("Slug may only contain lowercase letters, digits and single hyphens")
	}
	return nil
}

// Slugify lower-cases s, strips accents and joins the remaining letter and
// digit runs with hyphens. "Café & Culture" becomes "cafe-culture".
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return b.String()
}
