package main

import (
	"os"

	"github.com/dshills/lumen/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
