package main

import (
	"log"
	"os"

	"github.com/edusight/dropwatch/core"
	"github.com/edusight/dropwatch/core/risk"
	"github.com/edusight/dropwatch/storage/roster"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	predictor, err := risk.Load(conf.ModelPath)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		repo:      roster.NewRepository(conf.RosterPath),
		predictor: predictor,
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
