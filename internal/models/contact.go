package models

type Contact struct {
	ID     string  `bson:"_id" json:"id"`
	UserID string  `bson:"userId" json:"userId"` // owner, not enforced as a foreign key
	Name   string  `bson:"name" json:"name"`
	Email  string  `bson:"email" json:"email"`
	Phone  string  `bson:"phone" json:"phone"`
	Photo  *string `bson:"photo" json:"photo"` // filename inside the upload dir, or null
}

// PhotoName returns the stored photo filename, or "" when there is none.
func (c *Contact) PhotoName() string {
	if c.Photo == nil {
		return ""
	}
	return *c.Photo
}
