package main

import (
	"os"

	"github.com/toyz/mirror/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
