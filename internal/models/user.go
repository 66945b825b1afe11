package models

import (
	"gorm.io/gorm"
)

type Role string

const (
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
)

func (r Role) Valid() bool {
	return r == RoleFarmer || r == RoleBuyer
}

type User struct {
	gorm.Model
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	Name         string     `json:"name"`
	Email        string     `gorm:"" json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	PasswordHash string     `json:"-"`
	Role         Role       `gorm:"size:16;not null;default:buyer;index" json:"role"`
	APITokens    []APIToken `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) IsFarmer() bool {
	return u.Role == RoleFarmer
}
