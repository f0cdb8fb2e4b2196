// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Role is the authorization level of an account.
type Role string

const (
	// RoleStudent is the default role assigned at signup.
	RoleStudent Role = "student"

	// RoleProfessor grants access to the account administration endpoints.
	RoleProfessor Role = "professor"
)

// Valid reports whether r is one of the supported roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessor:
		return true
	}
	return false
}

// User is a credential record: identity, password digest, profile and role.
// PasswordHash is a bcrypt digest and never leaves the server.
type User struct {
	// Username is the unique key of the record and the token subject.
	Username string `json:"username"`

	// Email is unique across accounts.
	Email string `json:"email"`

	FullName    string `json:"full_name"`
	Address     string `json:"address"`
	Bio         string `json:"bio"`
	PhoneNumber string `json:"phone_number"`

	Role Role `json:"role"`

	// Disabled accounts keep their record but cannot pass the auth gate.
	Disabled bool `json:"disabled"`

	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// ProfileUpdate carries the profile fields a user may change on their own
// record. Nil fields are left unchanged.
type ProfileUpdate struct {
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	FullName    *string `json:"full_name,omitempty" validate:"omitempty,max=200"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,phone"`
}

// Apply copies every non-nil field of p onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
}
