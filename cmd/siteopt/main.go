package main

import (
	"siteopt/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
