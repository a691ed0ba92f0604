package main

import (
	"github.com/RyanBlaney/sonido-voz/voicemap"
	"github.com/spf13/cobra"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the voice catalog",
		Long: `Print the voice catalog used for matching. With --manifest the custom
voices of a manifest are appended after the catalog voices.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.catalog()
			if err != nil {
				return err
			}
			if path := a.v.GetString("manifest"); path != "" {
				m, err := readManifest(path)
				if err != nil {
					return err
				}
				if catalog, err = m.Catalog(catalog); err != nil {
					return err
				}
			}

			format, err := a.format()
			if err != nil {
				return err
			}
			if format == voicemap.FormatYAML {
				return catalog.WriteYAML(cmd.OutOrStdout())
			}
			return voicemap.Encode(cmd.OutOrStdout(), catalog.Entries(), format)
		},
	}
	cmd.Flags().String("manifest", "", "manifest whose custom voices extend the catalog")
	return cmd
}
