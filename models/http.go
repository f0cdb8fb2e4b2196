// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SignupRequest is the body of the signup endpoint. Password holds the
// plaintext secret; it is hashed before it reaches the store.
type SignupRequest struct {
	Username    string `json:"username" validate:"required,username"`
	Password    string `json:"password" validate:"required,min=8"`
	Email       string `json:"email" validate:"required,email,max=254"`
	FullName    string `json:"full_name" validate:"max=200"`
	Address     string `json:"address" validate:"max=500"`
	Bio         string `json:"bio" validate:"max=2000"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone"`
	Role        Role   `json:"role" validate:"omitempty,oneof=student professor"`
}

// User builds the credential record described by the request, without the
// password digest.
func (r SignupRequest) User() User {
	role := r.Role
	if role == "" {
		role = RoleStudent
	}
	return User{
		Username:    r.Username,
		Email:       r.Email,
		FullName:    r.FullName,
		Address:     r.Address,
		Bio:         r.Bio,
		PhoneNumber: r.PhoneNumber,
		Role:        role,
	}
}

// Credentials is the username and password pair presented at login.
type Credentials struct {
	Username string `json:"userName"`
	Password string `json:"password"`
}

// PasswordChangeRequest is the body of the password change endpoint.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// UserStatusRequest toggles the disabled flag of an account.
type UserStatusRequest struct {
	Disabled bool `json:"disabled"`
}
