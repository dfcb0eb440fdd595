package main

import (
	"os"

	"github.com/petasbytes/stock-agent/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
