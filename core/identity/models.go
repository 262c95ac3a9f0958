package identity

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/luminalearn/lumina/core"
)

// ID is an opaque principal identifier. The core only ever compares it
// against stored owner/role values; authentication happens at the boundary.
type ID string

func (id ID) String() string { return string(id) }

// Account holds the boundary-authentication material for an identity.
// Role membership (teacher, student, administrator) is tracked separately
// by the registry.
type Account struct {
	ID           ID        `json:"id"`
	Name         string    `json:"name"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

// NewAccount contains information needed to create a new Account.
type NewAccount struct {
	ID              string `json:"id" validate:"required,min=3,slug"`
	Name            string `json:"name" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (na *NewAccount) Validate(validate *validator.Validate, translator ut.Translator, svc *Service) error {
	na.ID = core.CleanString(na.ID, true /* lower */)
	na.Name = core.CleanString(na.Name)

	if err := validate.Struct(na); err != nil {
		return err
	}
	return svc.CheckIDUniqueness(ID(na.ID))
}
