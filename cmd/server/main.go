// Package main is the entry point of the portal-estudante server.
package main

import (
	"log"

	"github.com/ifportal/portal-estudante/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
