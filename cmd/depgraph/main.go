package main

import (
	"os"

	"github.com/nuthan-ms/depgraph/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
