package models

import "gorm.io/gorm"

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `gorm:"default:student" json:"role"` // student, instructor
	IsApproved   bool   `gorm:"default:false" json:"is_approved"`
	IsSuperuser  bool   `gorm:"default:false" json:"-"`
}

func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}
