package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/metusa-property/deal-analyzer/internal/model"
	"github.com/metusa-property/deal-analyzer/internal/report"
)

var (
	reportFormat string
	reportOut    string
	reportArea   bool
)

var reportCmd = &cobra.Command{
	Use:   "report <input.json>",
	Short: "Evaluate a deal and write an HTML, PDF or XLSX report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "read input file")
		}
		var in model.DealInput
		if err := json.Unmarshal(data, &in); err != nil {
			return eris.Wrap(err, "parse input file")
		}

		eval, err := buildEvaluator(cfg)
		if err != nil {
			return err
		}
		res, err := eval.Evaluate(in)
		if err != nil {
			return err
		}

		if reportArea && in.Postcode != "" {
			areaSvc, closeArea, err := buildArea(cfg)
			if err != nil {
				return eris.Wrap(err, "wire area service")
			}
			defer closeArea()
			res.Area = areaSvc.Context(cmd.Context(), in.Postcode, 3)
		}

		renderer := buildRenderer(cfg)

		format := strings.ToLower(reportFormat)
		var out []byte
		switch format {
		case "html":
			out, err = renderer.HTML(res)
		case "pdf":
			out, err = renderer.PDF(cmd.Context(), res)
		case "xlsx":
			out, err = renderer.XLSX(res)
		default:
			return eris.Errorf("unknown format %q (want html, pdf or xlsx)", reportFormat)
		}
		if err != nil {
			return err
		}

		path := reportOut
		if path == "" {
			path = report.FileName(res, format)
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return eris.Wrap(err, "write report")
		}
		cmd.Println(path)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "pdf", "output format: html, pdf or xlsx")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output path (default derived from the address)")
	reportCmd.Flags().BoolVar(&reportArea, "area", false, "attach area market and transport data")
	rootCmd.AddCommand(reportCmd)
}
