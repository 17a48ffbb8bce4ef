package main

import (
	"os"

	"sales-dashboard/cli"
)

func main() {
	os.Exit(cli.Execute())
}
