package main

import (
	"flag"

	"github.com/awjames6875/shipflow/internal/bootstrap"
)

var confDir string

func init() {
	flag.StringVar(&confDir, "conf", "conf.d", "conf dir path, e.g. -conf ./conf.d")
}

func main() {
	flag.Parse()

	app, err := bootstrap.NewApp(confDir)
	if err != nil {
		panic(err)
	}
	if err := app.Run(); err != nil {
		panic(err)
	}
}
