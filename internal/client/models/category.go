package models

// Category groups news articles. Public listings only carry active ones.
type Category struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"status"`
}
