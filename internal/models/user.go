package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is one of the closed set of access roles.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Roles lists every role, in seed order.
var Roles = []Role{RoleAdmin, RoleUser}

// User is a document in the users collection.
type User struct {
	ID        primitive.ObjectID `json:"id"        bson:"_id,omitempty" swaggertype:"string"`
	Username  string             `json:"username"  bson:"username"`
	Email     string             `json:"email"     bson:"email"`
	Password  string             `json:"-"         bson:"password"` // never serialize
	Role      Role               `json:"role"      bson:"role"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// UserRole is a document in the userroles collection.
type UserRole struct {
	ID        primitive.ObjectID `json:"id"        bson:"_id,omitempty" swaggertype:"string"`
	Name      Role               `json:"name"      bson:"name"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// UserView is the public projection of a user returned by the API.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// View returns the public projection of u.
func (u *User) View() UserView {
	return UserView{ID: u.ID.Hex(), Username: u.Username, Email: u.Email, Role: u.Role}
}

// RegisterRequest is the JSON body for POST /auth/sign-up.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"` // bcrypt input limit
}

// LoginRequest is the JSON body for POST /auth/sign-in.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the data of a successful sign-in.
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}
