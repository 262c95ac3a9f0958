package identity

import (
	"errors"
	"time"

	"github.com/luminalearn/lumina/core"
)

var (
	// errors
	ErrNotInitialized     = errors.New("administrator has not been set")
	ErrAlreadyInitialized = errors.New("administrator has already been set")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("an account with this id already exists")
	ErrAlreadyRegistered  = errors.New("identity already registered for this role")
	ErrNotRegistered      = errors.New("identity not registered for this role")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		CreateAccount(acct Account) (Account, error)
		GetAccount(id ID) (Account, error)
		SetLastLogin(acct Account) (Account, error)
		SetPassword(acct Account) (Account, error)

		SetAdministrator(id ID) error
		GetAdministrator() (ID, error)

		AddTeacher(id ID) error
		IsTeacher(id ID) (bool, error)
		AddStudent(id ID) error
		IsStudent(id ID) (bool, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckIDUniqueness(id ID) error {
	_, err := svc.repo.GetAccount(id)
	if err == ErrAccountNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return core.NewValidationError(ErrAccountExists, core.FieldError{Field: "id", Error: ErrAccountExists.Error()})
}

func (svc *Service) CreateAccount(na NewAccount) (Account, error) {
	now := time.Now().UTC()
	acct := Account{
		ID:        ID(na.ID),
		Name:      na.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := acct.SetPassword(na.Password); err != nil {
		return Account{}, err
	}
	return svc.repo.CreateAccount(acct)
}

func (svc *Service) GetAccount(id ID) (Account, error) {
	return svc.repo.GetAccount(id)
}

// Authenticate checks an identity's credentials and records the login time.
// It is only called by the boundary layer; core operations receive the
// resulting identity as an explicit argument and never authenticate themselves.
func (svc *Service) Authenticate(id ID, pwd string) (Account, error) {
	acct, err := svc.repo.GetAccount(id)
	if err != nil {
		if err == ErrAccountNotFound {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}
	if err = acct.CheckPassword(pwd); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	acct.LastLogin = time.Now().UTC()
	return svc.repo.SetLastLogin(acct)
}

func (svc *Service) ResetPassword(id ID, pwd string) (Account, error) {
	acct, err := svc.repo.GetAccount(id)
	if err != nil {
		return Account{}, err
	}
	if err = acct.SetPassword(pwd); err != nil {
		return Account{}, err
	}
	acct.UpdatedAt = time.Now().UTC()
	return svc.repo.SetPassword(acct)
}

// SetAdministrator records the single top-level administrator. It can
// succeed at most once; subsequent calls fail with ErrAlreadyInitialized.
func (svc *Service) SetAdministrator(id ID) error {
	if _, err := svc.repo.GetAccount(id); err != nil {
		return err
	}
	return svc.repo.SetAdministrator(id)
}

func (svc *Service) Administrator() (ID, error) {
	return svc.repo.GetAdministrator()
}

// RegisterTeacher grants teacher status to the calling identity itself.
// Third-party role assignment is deliberately not supported.
func (svc *Service) RegisterTeacher(actor ID) error {
	if _, err := svc.repo.GetAccount(actor); err != nil {
		return err
	}
	return svc.repo.AddTeacher(actor)
}

// RegisterStudent grants student status to the calling identity itself.
// The enrollment ledger starts out empty for a newly registered student.
func (svc *Service) RegisterStudent(actor ID) error {
	if _, err := svc.repo.GetAccount(actor); err != nil {
		return err
	}
	return svc.repo.AddStudent(actor)
}

func (svc *Service) IsTeacher(id ID) (bool, error) {
	return svc.repo.IsTeacher(id)
}

func (svc *Service) IsStudent(id ID) (bool, error) {
	return svc.repo.IsStudent(id)
}
