package models

// User is a registered account. PasswordHash is persisted under the
// "password" key and must never be written to an HTTP response.
type User struct {
	ID           string `bson:"_id" json:"id"`
	Username     string `bson:"username" json:"username"`
	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"password" json:"password"`
}
