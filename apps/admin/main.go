package main

import (
	"log"
	"os"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/storage/database"
	sqlxrepos "github.com/uniwayhq/uniway/storage/database/sqlx"
)

var logger *log.Logger // todo: logger service

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	// start CLI
	cli := commandLine{
		db:          db.DB,
		usrRepo:     sqlxrepos.NewUserRepository(db),
		partnerRepo: sqlxrepos.NewPartnerRepository(db),
		studentRepo: sqlxrepos.NewStudentRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
