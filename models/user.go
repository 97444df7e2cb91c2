package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// RoleAdmin is the only role this deployment knows about.
const RoleAdmin = "admin"

// Credential is the admin login record. The password field holds a bcrypt hash.
type Credential struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password" json:"-"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Identity is the outcome of a successful login.
type Identity struct {
	Username string
	Role     string
}
