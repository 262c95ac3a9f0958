package main

import (
	"github.com/luminalearn/lumina/storage/database"
)

var migrateRunFunc = database.MigrationCommand // mockable

func (cli *commandLine) migrate(args []string) error {
	var arguments []string
	if len(args) > 1 {
		arguments = args[1:]
	}
	return migrateRunFunc(cli.db, args[0], arguments...)
}
