package main

import (
	"log"
	"os"

	"github.com/ericardos/chamada-escolar/core"
	"github.com/ericardos/chamada-escolar/core/attendance"
	"github.com/ericardos/chamada-escolar/storage/localstore"
)

var logger core.Logger

func main() {
	defer os.Exit(0)

	logger = core.NewStdLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile))

	conf := core.NewConfig()
	store := localstore.NewFileStore(conf.DataFile, logger)
	attSvc := attendance.NewService(store, attendance.NewUUIDGenerator(), logger)

	// start CLI
	cli := commandLine{attSvc: attSvc}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		os.Exit(1)
	}
}
