package main

import (
	"github.com/luminalearn/lumina/core"
	"github.com/luminalearn/lumina/core/identity"
)

// initAdmin updates or creates the account and promotes it to administrator.
func (cli *commandLine) initAdmin(id, name, pwd string) error {
	id = core.CleanString(id, true /* lower */)
	name = core.CleanString(name)

	acct, err := cli.idRepo.GetAccount(identity.ID(id))
	if err != nil {
		if err != identity.ErrAccountNotFound {
			return err
		}
		acct = identity.Account{ID: identity.ID(id), Name: name}
		if err := acct.SetPassword(pwd); err != nil {
			return err
		}
		if acct, err = cli.idRepo.CreateAccount(acct); err != nil {
			return err
		}
	} else {
		if err := acct.SetPassword(pwd); err != nil {
			return err
		}
		if _, err := cli.idRepo.SetPassword(acct); err != nil {
			return err
		}
	}

	if err := cli.idRepo.SetAdministrator(acct.ID); err != nil {
		return err
	}
	logger.Printf("administrator set to %q", acct.ID)
	return nil
}
