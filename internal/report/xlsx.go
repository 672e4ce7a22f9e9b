package report

import (
	"bytes"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/metusa-property/deal-analyzer/internal/model"
)

// XLSX exports the evaluation as a spreadsheet with Summary, Financials,
// and Projection sheets.
func (r *Renderer) XLSX(res *model.DealResult) ([]byte, error) {
	if res == nil {
		return nil, eris.New("report: nil result")
	}

	f := xlsx.NewFile()

	if err := r.summarySheet(f, res); err != nil {
		return nil, err
	}
	if err := financialsSheet(f, res); err != nil {
		return nil, err
	}
	if len(res.Projection) > 0 {
		if err := projectionSheet(f, res); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "report: write xlsx")
	}
	return buf.Bytes(), nil
}

func addPair(sheet *xlsx.Sheet, label string, value any) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	cell := row.AddCell()
	switch v := value.(type) {
	case float64:
		cell.SetFloatWithFormat(v, "#,##0.00")
	case int:
		cell.SetInt(v)
	case string:
		cell.SetString(v)
	default:
		cell.SetString(fmt.Sprint(v))
	}
}

func (r *Renderer) summarySheet(f *xlsx.File, res *model.DealResult) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}

	title := sheet.AddRow()
	title.AddCell().SetString(r.brand + " Deal Analysis")
	sheet.AddRow()

	addPair(sheet, "Deal Type", string(res.DealType))
	if res.Address != "" {
		addPair(sheet, "Address", res.Address)
	}
	if res.Postcode != "" {
		addPair(sheet, "Postcode", res.Postcode)
	}
	addPair(sheet, "Verdict", string(res.Verdict))
	addPair(sheet, "Deal Score", res.Score)
	addPair(sheet, "Score Label", res.ScoreLabel)
	addPair(sheet, "Overall Risk", string(res.Risk.Overall))
	sheet.AddRow()

	addPair(sheet, "Gross Yield %", res.Ratios.GrossYield)
	addPair(sheet, "Net Yield %", res.Ratios.NetYield)
	addPair(sheet, "Cash-on-Cash %", res.Ratios.CashOnCash)
	addPair(sheet, "Monthly Cashflow", res.Income.MonthlyCashflow)
	addPair(sheet, "Cash Invested", res.CashInvested)

	if res.BRR != nil {
		sheet.AddRow()
		addPair(sheet, "Equity Created", res.BRR.EquityCreated)
		addPair(sheet, "Money Left In", res.BRR.MoneyLeftIn)
		addPair(sheet, "Refinance ROI %", res.BRR.ROI)
	}
	if res.Flip != nil {
		sheet.AddRow()
		addPair(sheet, "Projected Profit", res.Flip.Profit)
		addPair(sheet, "Flip ROI %", res.Flip.ROI)
	}
	return nil
}

func financialsSheet(f *xlsx.File, res *model.DealResult) error {
	sheet, err := f.AddSheet("Financials")
	if err != nil {
		return eris.Wrap(err, "report: add financials sheet")
	}

	header := sheet.AddRow()
	header.AddCell().SetString("Purchase Costs")
	addPair(sheet, "Stamp Duty", res.Costs.StampDuty)
	addPair(sheet, "Legal Fees", res.Costs.LegalFee)
	addPair(sheet, "Valuation Fee", res.Costs.ValuationFee)
	addPair(sheet, "Arrangement Fee", res.Costs.ArrangementFee)
	addPair(sheet, "Total Purchase Costs", res.Costs.TotalPurchaseCosts)
	sheet.AddRow()

	financing := sheet.AddRow()
	financing.AddCell().SetString("Financing")
	addPair(sheet, "Deposit", res.Costs.DepositAmount)
	addPair(sheet, "Loan Amount", res.Costs.LoanAmount)
	addPair(sheet, "Monthly Mortgage", res.Income.MonthlyMortgage)
	sheet.AddRow()

	income := sheet.AddRow()
	income.AddCell().SetString("Annual Income")
	addPair(sheet, "Annual Rent", res.Income.AnnualRent)
	addPair(sheet, "Management", res.Income.Expenses.Management)
	addPair(sheet, "Void Allowance", res.Income.Expenses.VoidAllowance)
	addPair(sheet, "Maintenance Reserve", res.Income.Expenses.MaintenanceReserve)
	addPair(sheet, "Insurance", res.Income.Expenses.Insurance)
	addPair(sheet, "Total Expenses", res.Income.Expenses.Total)
	addPair(sheet, "Net Annual Income", res.Income.NetAnnualIncome)
	return nil
}

func projectionSheet(f *xlsx.File, res *model.DealResult) error {
	sheet, err := f.AddSheet("Projection")
	if err != nil {
		return eris.Wrap(err, "report: add projection sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Year", "Annual Rent", "Annual Net", "Cumulative Cashflow", "Property Value", "Equity", "Total Return"} {
		header.AddCell().SetString(h)
	}
	for _, y := range res.Projection {
		row := sheet.AddRow()
		row.AddCell().SetInt(y.Year)
		row.AddCell().SetFloatWithFormat(y.AnnualRent, "#,##0")
		row.AddCell().SetFloatWithFormat(y.AnnualNet, "#,##0")
		row.AddCell().SetFloatWithFormat(y.CumulativeCashflow, "#,##0")
		row.AddCell().SetFloatWithFormat(y.PropertyValue, "#,##0")
		row.AddCell().SetFloatWithFormat(y.Equity, "#,##0")
		row.AddCell().SetFloatWithFormat(y.TotalReturn, "#,##0")
	}
	return nil
}
