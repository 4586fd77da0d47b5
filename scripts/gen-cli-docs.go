//go:build ignore
// +build ignore

package main

import (
	"log"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/undoio/waitstatus/cmd/wstat/cmds"
)

func main() {
	const dir = "./Documentation/usage"
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("could not create %s: %v", dir, err)
	}
	if err := doc.GenMarkdownTree(cmds.New(true), dir); err != nil {
		log.Fatalf("could not generate usage docs: %v", err)
	}
}
