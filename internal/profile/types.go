package profile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound   = errors.New("profile not found")
	ErrValidation = errors.New("invalid profile")
)

type Sex string

const (
	SexMale           Sex = "male"
	SexFemale         Sex = "female"
	SexOther          Sex = "other"
	SexPreferNotToSay Sex = "prefer-not-to-say"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Profile is the stored account record. JSON names match the persisted blob.
type Profile struct {
	Username    string `json:"username" validate:"required,max=64"`
	Email       string `json:"email" validate:"required,emailshape"`
	Birthdate   string `json:"birthdate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Sex         Sex    `json:"sex,omitempty" validate:"omitempty,oneof=male female other prefer-not-to-say"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,max=32"`
	JoinDate    string `json:"joinDate" validate:"required"`
	Role        Role   `json:"role" validate:"required,oneof=user moderator admin"`
}

// Overrides sets optional fields at creation time. Zero values keep the
// defaults.
type Overrides struct {
	Birthdate   string
	Sex         Sex
	PhoneNumber string
	Role        Role
}

// ProfileUpdate carries a partial edit. Nil fields are left alone; a pointer
// to "" clears an optional field.
type ProfileUpdate struct {
	Username    *string
	Email       *string
	Birthdate   *string
	Sex         *Sex
	PhoneNumber *string
}

func (u ProfileUpdate) apply(p Profile) Profile {
	if u.Username != nil {
		p.Username = strings.TrimSpace(*u.Username)
	}
	if u.Email != nil {
		p.Email = strings.TrimSpace(*u.Email)
	}
	if u.Birthdate != nil {
		p.Birthdate = strings.TrimSpace(*u.Birthdate)
	}
	if u.Sex != nil {
		p.Sex = *u.Sex
	}
	if u.PhoneNumber != nil {
		p.PhoneNumber = strings.TrimSpace(*u.PhoneNumber)
	}
	return p
}

// FieldError names one rejected field using its JSON name.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// ValidationError lists every rejected field of a create or update.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Has reports whether field was rejected.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
