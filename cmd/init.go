package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/cadena/internal/config"
	"github.com/ziadkadry99/cadena/internal/localmodel"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize cadena configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure cadena and writes a .cadena.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.RunWizard(cfgFile, localmodel.CatalogIDs()); err != nil {
			return err
		}
		fmt.Printf("Hosted model credential: %s\n", credentialStatus())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
