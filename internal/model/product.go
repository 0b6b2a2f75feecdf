package model

import (
	"strings"
	"time"
)

// Product belongs to exactly one user. ImageURL stores the uploaded image
// public URLs as a comma-delimited list, matching the remote column.
type Product struct {
	ID          string    `json:"id,omitempty"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// Images splits the delimited image list, dropping empty entries.
func (p *Product) Images() []string {
	if p.ImageURL == "" {
		return nil
	}
	parts := strings.Split(p.ImageURL, ",")
	urls := parts[:0]
	for _, u := range parts {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// FirstImage returns the first image URL, or empty if none.
func (p *Product) FirstImage() string {
	if imgs := p.Images(); len(imgs) > 0 {
		return imgs[0]
	}
	return ""
}

// JoinImages builds the delimited ImageURL value from a URL list.
func JoinImages(urls []string) string {
	return strings.Join(urls, ",")
}
