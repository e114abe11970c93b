package main

import (
	"log"

	"github.com/leodido/outfitter/cmd/outfitter/cli"
)

func main() {
	log.SetFlags(0)
	c := cli.NewRootC()

	if err := c.Execute(); err != nil {
		log.Fatalln(err)
	}
}
