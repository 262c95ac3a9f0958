package dummydb

import (
	"github.com/luminalearn/lumina/core/identity"
)

type identityRepository struct {
	db *identityTable
}

var _ identity.Repository = (*identityRepository)(nil) // interface compliance check

func NewIdentityRepository(db *DB) identity.Repository {
	return &identityRepository{db: db.identity}
}

func (repo *identityRepository) CreateAccount(acct identity.Account) (identity.Account, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.accounts[acct.ID]; ok {
		return identity.Account{}, identity.ErrAccountExists
	}
	repo.db.accounts[acct.ID] = &acct
	return acct, nil
}

func (repo *identityRepository) GetAccount(id identity.ID) (identity.Account, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if acct, ok := repo.db.accounts[id]; ok {
		return *acct, nil
	}
	return identity.Account{}, identity.ErrAccountNotFound
}

func (repo *identityRepository) SetLastLogin(acct identity.Account) (identity.Account, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored, ok := repo.db.accounts[acct.ID]
	if !ok {
		return identity.Account{}, identity.ErrAccountNotFound
	}
	stored.LastLogin = acct.LastLogin
	return *stored, nil
}

func (repo *identityRepository) SetPassword(acct identity.Account) (identity.Account, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored, ok := repo.db.accounts[acct.ID]
	if !ok {
		return identity.Account{}, identity.ErrAccountNotFound
	}
	stored.PasswordHash = acct.PasswordHash
	stored.UpdatedAt = acct.UpdatedAt
	return *stored, nil
}

func (repo *identityRepository) SetAdministrator(id identity.ID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.db.admin != "" {
		return identity.ErrAlreadyInitialized
	}
	repo.db.admin = id
	return nil
}

func (repo *identityRepository) GetAdministrator() (identity.ID, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.admin == "" {
		return "", identity.ErrNotInitialized
	}
	return repo.db.admin, nil
}

func (repo *identityRepository) AddTeacher(id identity.ID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.db.teachers[id] {
		return identity.ErrAlreadyRegistered
	}
	repo.db.teachers[id] = true
	return nil
}

func (repo *identityRepository) IsTeacher(id identity.ID) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.teachers[id], nil
}

func (repo *identityRepository) AddStudent(id identity.ID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.db.students[id] {
		return identity.ErrAlreadyRegistered
	}
	repo.db.students[id] = true
	return nil
}

func (repo *identityRepository) IsStudent(id identity.ID) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.students[id], nil
}
