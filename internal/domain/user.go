package domain

import "time"

type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Hash      string    `db:"password_hash" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

func (u User) Principal() Principal {
	return Principal{UserID: u.ID, Name: u.Name, Email: u.Email}
}
