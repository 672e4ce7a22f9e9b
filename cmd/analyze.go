package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/metusa-property/deal-analyzer/internal/model"
	"github.com/metusa-property/deal-analyzer/internal/validate"
)

var (
	analyzeInputPath string
	analyzeWithArea  bool

	analyzeDealType string
	analyzePrice    float64
	analyzeRent     float64
	analyzeDeposit  float64
	analyzeRate     float64
	analyzeSecond   bool
	analyzeRefurb   float64
	analyzeARV      float64
	analyzeRooms    int
	analyzeRoomRate float64
	analyzeAddress  string
	analyzePostcode string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Evaluate a deal and print the result as JSON",
	Long:  "Evaluates a deal from --input JSON or from flags. With --area, attaches Land Registry, PropertyData and transport context for the postcode.",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := analyzeInput(cmd)
		if err != nil {
			return err
		}

		eval, err := buildEvaluator(cfg)
		if err != nil {
			return err
		}

		res, err := eval.Evaluate(in)
		if err != nil {
			return err
		}

		if analyzeWithArea && in.Postcode != "" {
			areaSvc, closeArea, err := buildArea(cfg)
			if err != nil {
				return eris.Wrap(err, "wire area service")
			}
			defer closeArea()
			res.Area = areaSvc.Context(cmd.Context(), in.Postcode, 3)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

// analyzeInput builds the DealInput from --input or from flags. Optional
// strategy fields are set only when their flag was explicitly given, so the
// evaluator can tell absent from zero.
func analyzeInput(cmd *cobra.Command) (model.DealInput, error) {
	var in model.DealInput

	if analyzeInputPath != "" {
		data, err := os.ReadFile(analyzeInputPath)
		if err != nil {
			return in, eris.Wrap(err, "read input file")
		}
		if err := json.Unmarshal(data, &in); err != nil {
			return in, eris.Wrap(err, "parse input file")
		}
	} else {
		in = model.DealInput{
			DealType:            model.DealType(analyzeDealType),
			PurchasePrice:       analyzePrice,
			MonthlyRent:         analyzeRent,
			DepositPercent:      analyzeDeposit,
			InterestRatePercent: analyzeRate,
			SecondProperty:      analyzeSecond,
			Address:             analyzeAddress,
			Postcode:            analyzePostcode,
		}
		if cmd.Flags().Changed("refurb") {
			in.RefurbCost = &analyzeRefurb
		}
		if cmd.Flags().Changed("arv") {
			in.AfterRepairValue = &analyzeARV
		}
		if cmd.Flags().Changed("rooms") {
			in.RoomCount = &analyzeRooms
		}
		if cmd.Flags().Changed("room-rate") {
			in.RoomRate = &analyzeRoomRate
		}
	}

	in.Address = validate.Sanitize(in.Address, 200)
	if in.Postcode != "" {
		normalized := validate.NormalizePostcode(in.Postcode)
		if normalized == "" {
			return in, eris.Errorf("invalid UK postcode: %s", in.Postcode)
		}
		in.Postcode = normalized
	}
	return in, nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInputPath, "input", "", "JSON file with the deal input")
	analyzeCmd.Flags().BoolVar(&analyzeWithArea, "area", false, "attach area market and transport data")

	analyzeCmd.Flags().StringVar(&analyzeDealType, "type", "BTL", "deal type: BTL, BRR, HMO or FLIP")
	analyzeCmd.Flags().Float64Var(&analyzePrice, "price", 0, "purchase price")
	analyzeCmd.Flags().Float64Var(&analyzeRent, "rent", 0, "monthly rent")
	analyzeCmd.Flags().Float64Var(&analyzeDeposit, "deposit", 25, "deposit percent")
	analyzeCmd.Flags().Float64Var(&analyzeRate, "rate", 5.5, "mortgage interest rate percent")
	analyzeCmd.Flags().BoolVar(&analyzeSecond, "second", true, "additional property (stamp duty surcharge)")
	analyzeCmd.Flags().Float64Var(&analyzeRefurb, "refurb", 0, "refurbishment cost (BRR/FLIP)")
	analyzeCmd.Flags().Float64Var(&analyzeARV, "arv", 0, "after-repair value (BRR/FLIP)")
	analyzeCmd.Flags().IntVar(&analyzeRooms, "rooms", 0, "lettable rooms (HMO)")
	analyzeCmd.Flags().Float64Var(&analyzeRoomRate, "room-rate", 0, "monthly rent per room (HMO)")
	analyzeCmd.Flags().StringVar(&analyzeAddress, "address", "", "property address")
	analyzeCmd.Flags().StringVar(&analyzePostcode, "postcode", "", "property postcode")

	rootCmd.AddCommand(analyzeCmd)
}
