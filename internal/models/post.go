package models

import "time"

const postPreviewLen = 15

// Post is a single publication.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	GroupID   *uint     `gorm:"index" json:"group_id,omitempty"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image     string    `gorm:"size:255" json:"image,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// String returns the first characters of the post text.
func (p *Post) String() string {
	r := []rune(p.Text)
	if len(r) > postPreviewLen {
		return string(r[:postPreviewLen])
	}
	return p.Text
}

// IsAuthor reports whether userID wrote the post.
func (p *Post) IsAuthor(userID uint) bool {
	return userID != 0 && p.AuthorID == userID
}
