package main

import (
	"os"

	"github.com/spf13/cobra"

	mcpadapter "github.com/kirillkom/x-sentiment/internal/adapters/mcp"
)

func runMCPCommand(cmd *cobra.Command, _ []string) error {
	app, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	server := mcpadapter.NewServer(app.Resolver, app.Analysis)
	return mcpadapter.ServeStdio(cmd.Context(), server, os.Stdin, os.Stdout)
}
