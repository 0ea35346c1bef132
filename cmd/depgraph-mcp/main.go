package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nuthan-ms/depgraph/internal/mcpserver"
)

func main() {
	server, err := mcpserver.NewServer(mcpserver.Config{
		Name:    "depgraph",
		Version: "0.1.0",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := server.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
