// Package store holds the development upstream's data in memory.
package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/newsclient/internal/client/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

const dateLayout = "2006-01-02"

// Store is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	users      map[string]string
	categories []models.Category
	comments   []models.Comment
	editions   map[string]*models.Edition
	now        func() time.Time
}

func New() *Store {
	return &Store{
		users:    make(map[string]string),
		editions: make(map[string]*models.Edition),
		now:      time.Now,
	}
}

// UserID returns the stable id of email, creating one on first use.
func (s *Store) UserID(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.users[email]
	if !ok {
		id = uuid.NewString()
		s.users[email] = id
	}
	return id
}

// Categories returns a copy of the categories, optionally only active ones.
func (s *Store) Categories(activeOnly bool) []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *Store) indexOf(id string) int {
	for i, c := range s.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) slugTaken(slug, exceptID string) bool {
	for _, c := range s.categories {
		if c.Slug == slug && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (s *Store) CreateCategory(c models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slugTaken(c.Slug, "") {
		return models.Category{}, fmt.Errorf("category %q: %w", c.Slug, ErrConflict)
	}
	c.ID = uuid.NewString()
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *Store) UpdateCategory(c models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(c.ID)
	if i < 0 {
		return models.Category{}, fmt.Errorf("category %s: %w", c.ID, ErrNotFound)
	}
	if s.slugTaken(c.Slug, c.ID) {
		return models.Category{}, fmt.Errorf("category %q: %w", c.Slug, ErrConflict)
	}
	s.categories[i] = c
	return c, nil
}

func (s *Store) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	s.categories = append(s.categories[:i], s.categories[i+1:]...)
	return nil
}

// Comments returns every comment, newest first.
func (s *Store) Comments() []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Comment, len(s.comments))
	copy(out, s.comments)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) AddComment(newsID, author, content string) models.Comment {
	c := models.Comment{
		ID:        uuid.NewString(),
		NewsID:    newsID,
		Author:    author,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append(s.comments, c)
	return c
}

// PutEdition stores ed under its date.
func (s *Store) PutEdition(ed *models.Edition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editions[ed.Date] = ed
}

// Edition returns the edition for date, or the latest one for "".
func (s *Store) Edition(date string) (*models.Edition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if date == "" {
		for d := range s.editions {
			if d > date {
				date = d
			}
		}
	}
	ed, ok := s.editions[date]
	if !ok {
		return nil, fmt.Errorf("edition %s: %w", date, ErrNotFound)
	}
	cp := *ed
	cp.Pages = append([]models.Page(nil), ed.Pages...)
	return &cp, nil
}
