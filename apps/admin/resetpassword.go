package main

import (
	"github.com/luminalearn/lumina/core"
	"github.com/luminalearn/lumina/core/identity"
)

func (cli *commandLine) resetPassword(id, pwd string) error {
	acct, err := cli.idRepo.GetAccount(identity.ID(core.CleanString(id, true /* lower */)))
	if err != nil {
		return err
	}
	if err := acct.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.idRepo.SetPassword(acct); err != nil {
		return err
	}
	return nil
}
