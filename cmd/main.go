package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/exb-museum/exb-admin/cmd/service"
	_ "github.com/exb-museum/exb-admin/pkg/plugins/selfhost"
)

func main() {
	root := &cobra.Command{
		Use:   "exb-admin",
		Short: "exb museum admin service",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("empty command")
		},
	}

	root.AddCommand(service.NewCommand(), service.NewProcessCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
