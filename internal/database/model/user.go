package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// User object
type User struct {
	Id          string     `json:"user_id" msgpack:"user_id"`
	Phone       string     `json:"phone" msgpack:"phone"`
	Email       string     `json:"email" msgpack:"email"`
	Username    string     `json:"username" msgpack:"username"`
	Password    string     `json:"password" msgpack:"password"`
	Active      bool       `json:"active" msgpack:"active"`
	IsDeleted   bool       `json:"is_deleted" msgpack:"is_deleted"`
	LastLoginAt *time.Time `json:"last_login_at" msgpack:"last_login_at"`
	UpdatedAt   time.Time  `json:"updated_at" msgpack:"updated_at"`
	CreatedAt   time.Time  `json:"created_at" msgpack:"created_at"`
}

func NewUser(phone string, username string, password string) *User {
	id, err := uuid.NewV7()
	if err != nil {
		log.Fatal().Err(err).Msg("model: failed to generate user id")
	}

	user := &User{
		Id:        id.String(),
		Phone:     phone,
		Username:  username,
		Active:    true,
		UpdatedAt: time.Now().UTC(),
		CreatedAt: time.Now().UTC(),
	}

	user.SetPassword(password)

	return user
}

// Set the password for the user
func (u *User) SetPassword(password string) error {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err == nil {
		u.Password = string(bytes)
	}

	return err
}

// Check the password for the user
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
