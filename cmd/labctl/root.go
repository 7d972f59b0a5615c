package main

import (
	"github.com/ashureev/markup-labs/internal/catalog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "labctl",
		Short:         "Markup labs operator tool",
		Long:          "labctl validates lesson catalogs and checks markup against challenge predicates.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("file", "", "Path to a catalog YAML file (defaults to the embedded catalog)")

	root.AddCommand(newCatalogCmd())
	return root
}

// loadCatalog returns the catalog named by --file, or the embedded one.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	if p, _ := cmd.Flags().GetString("file"); p != "" {
		return catalog.LoadFile(p)
	}
	return catalog.Default()
}
