package main

import (
	"os"

	"github.com/dshills/prismfold/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
