package sqlxrepos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/luminalearn/lumina/core/identity"
)

type identityRepository struct {
	db *sqlx.DB
}

var _ identity.Repository = (*identityRepository)(nil) // interface compliance check

func NewIdentityRepository(db *sqlx.DB) identity.Repository {
	return &identityRepository{db: db}
}

type accountRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	LastLogin    null.Time `db:"last_login"`
}

func (row accountRow) account() identity.Account {
	return identity.Account{
		ID:           identity.ID(row.ID),
		Name:         row.Name,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		LastLogin:    row.LastLogin.Time,
	}
}

func (repo *identityRepository) CreateAccount(acct identity.Account) (identity.Account, error) {
	_, err := repo.db.Exec(
		`INSERT INTO account (id, name, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		acct.ID, acct.Name, acct.PasswordHash, acct.CreatedAt, acct.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return identity.Account{}, identity.ErrAccountExists
		}
		return identity.Account{}, errors.Wrap(err, "inserting account")
	}
	return acct, nil
}

func (repo *identityRepository) GetAccount(id identity.ID) (identity.Account, error) {
	var row accountRow
	err := repo.db.Get(&row, `SELECT id, name, password_hash, created_at, updated_at, last_login FROM account WHERE id = $1`, id)
	if err != nil {
		if isNoRows(err) {
			return identity.Account{}, identity.ErrAccountNotFound
		}
		return identity.Account{}, errors.Wrap(err, "selecting account")
	}
	return row.account(), nil
}

func (repo *identityRepository) SetLastLogin(acct identity.Account) (identity.Account, error) {
	res, err := repo.db.Exec(`UPDATE account SET last_login = $1 WHERE id = $2`, acct.LastLogin, acct.ID)
	if err != nil {
		return identity.Account{}, errors.Wrap(err, "updating last_login")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return identity.Account{}, identity.ErrAccountNotFound
	}
	return acct, nil
}

func (repo *identityRepository) SetPassword(acct identity.Account) (identity.Account, error) {
	res, err := repo.db.Exec(
		`UPDATE account SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		acct.PasswordHash, acct.UpdatedAt, acct.ID,
	)
	if err != nil {
		return identity.Account{}, errors.Wrap(err, "updating password")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return identity.Account{}, identity.ErrAccountNotFound
	}
	return acct, nil
}

func (repo *identityRepository) SetAdministrator(id identity.ID) error {
	_, err := repo.db.Exec(`INSERT INTO administrator (account_id) VALUES ($1)`, id)
	if err != nil {
		if isUniqueViolation(err) {
			return identity.ErrAlreadyInitialized
		}
		return errors.Wrap(err, "inserting administrator")
	}
	return nil
}

func (repo *identityRepository) GetAdministrator() (identity.ID, error) {
	var id string
	err := repo.db.Get(&id, `SELECT account_id FROM administrator`)
	if err != nil {
		if isNoRows(err) {
			return "", identity.ErrNotInitialized
		}
		return "", errors.Wrap(err, "selecting administrator")
	}
	return identity.ID(id), nil
}

func (repo *identityRepository) AddTeacher(id identity.ID) error {
	_, err := repo.db.Exec(`INSERT INTO teacher (account_id) VALUES ($1)`, id)
	if err != nil {
		if isUniqueViolation(err) {
			return identity.ErrAlreadyRegistered
		}
		return errors.Wrap(err, "inserting teacher")
	}
	return nil
}

func (repo *identityRepository) IsTeacher(id identity.ID) (bool, error) {
	var exists bool
	err := repo.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM teacher WHERE account_id = $1)`, id)
	if err != nil {
		return false, errors.Wrap(err, "checking teacher")
	}
	return exists, nil
}

func (repo *identityRepository) AddStudent(id identity.ID) error {
	_, err := repo.db.Exec(`INSERT INTO student (account_id) VALUES ($1)`, id)
	if err != nil {
		if isUniqueViolation(err) {
			return identity.ErrAlreadyRegistered
		}
		return errors.Wrap(err, "inserting student")
	}
	return nil
}

func (repo *identityRepository) IsStudent(id identity.ID) (bool, error) {
	var exists bool
	err := repo.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM student WHERE account_id = $1)`, id)
	if err != nil {
		return false, errors.Wrap(err, "checking student")
	}
	return exists, nil
}
