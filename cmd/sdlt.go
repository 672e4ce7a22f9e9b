package main

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/metusa-property/deal-analyzer/internal/evaluator"
	"github.com/metusa-property/deal-analyzer/internal/report"
)

var sdltSecond bool

var sdltCmd = &cobra.Command{
	Use:   "sdlt <price>",
	Short: "Compute stamp duty for a purchase price",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := strconv.ParseFloat(args[0], 64)
		if err != nil || price <= 0 {
			return eris.Errorf("invalid price: %s", args[0])
		}

		merged := evaluator.MergeConfig(evaluator.DefaultConfig(), cfg.Evaluator)
		if err := evaluator.ValidateConfig(merged); err != nil {
			return eris.Wrap(err, "evaluator policy")
		}

		tax := evaluator.StampDuty(merged.SDLT, price, sdltSecond)
		cmd.Printf("%s on %s", report.GBP(tax), report.GBP(price))
		if sdltSecond {
			cmd.Printf(" (including %.0f%% additional-property surcharge)", merged.SDLT.SurchargeRate*100)
		}
		cmd.Println()
		return nil
	},
}

func init() {
	sdltCmd.Flags().BoolVar(&sdltSecond, "second", true, "additional property (surcharge applies)")
	rootCmd.AddCommand(sdltCmd)
}
