package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/metusa-property/deal-analyzer/internal/validate"
)

var areaBedrooms int

var areaCmd = &cobra.Command{
	Use:   "area <postcode>",
	Short: "Look up market and transport data for a postcode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		postcode := validate.NormalizePostcode(args[0])
		if postcode == "" {
			return eris.Errorf("invalid UK postcode: %s", args[0])
		}

		areaSvc, closeArea, err := buildArea(cfg)
		if err != nil {
			return eris.Wrap(err, "wire area service")
		}
		defer closeArea()

		ctx := areaSvc.Context(cmd.Context(), postcode, areaBedrooms)
		if ctx == nil {
			return eris.Errorf("no area data available for %s", postcode)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ctx)
	},
}

func init() {
	areaCmd.Flags().IntVar(&areaBedrooms, "bedrooms", 3, "bedrooms for the rental estimate")
	rootCmd.AddCommand(areaCmd)
}
