package models

import "time"

// Comment is a reader comment attached to a news article.
type Comment struct {
	ID        string    `json:"id"`
	NewsID    string    `json:"news_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
