package narrative

import (
	"fmt"
	"strings"

	"github.com/metusa-property/deal-analyzer/internal/model"
)

// buildPrompt lays out the evaluation for the model: property details,
// computed metrics, whatever area data is attached, and the sections the
// commentary should cover.
func buildPrompt(res *model.DealResult) string {
	var b strings.Builder

	b.WriteString("Analyze this UK property investment deal and provide detailed insights:\n\n")

	b.WriteString("PROPERTY DETAILS:\n")
	if res.Address != "" {
		fmt.Fprintf(&b, "- Address: %s\n", res.Address)
	}
	if res.Postcode != "" {
		fmt.Fprintf(&b, "- Postcode: %s\n", res.Postcode)
	}
	fmt.Fprintf(&b, "- Deal Type: %s\n", res.DealType)

	b.WriteString("\nFINANCIAL METRICS:\n")
	fmt.Fprintf(&b, "- Gross Yield: %.2f%%\n", res.Ratios.GrossYield)
	fmt.Fprintf(&b, "- Net Yield: %.2f%%\n", res.Ratios.NetYield)
	fmt.Fprintf(&b, "- Monthly Cashflow: £%.0f\n", res.Income.MonthlyCashflow)
	fmt.Fprintf(&b, "- Cash-on-Cash Return: %.2f%%\n", res.Ratios.CashOnCash)
	fmt.Fprintf(&b, "- Net Annual Income: £%.0f\n", res.Income.NetAnnualIncome)
	fmt.Fprintf(&b, "- Cash Invested: £%.0f\n", res.CashInvested)
	fmt.Fprintf(&b, "- Deal Score: %d/100 (%s)\n", res.Score, res.ScoreLabel)
	fmt.Fprintf(&b, "- Investment Verdict: %s\n", res.Verdict)
	fmt.Fprintf(&b, "- Overall Risk: %s\n", res.Risk.Overall)

	if res.BRR != nil {
		b.WriteString("\nREFINANCE STRATEGY:\n")
		fmt.Fprintf(&b, "- Equity Created: £%.0f\n", res.BRR.EquityCreated)
		fmt.Fprintf(&b, "- Money Left In: £%.0f\n", res.BRR.MoneyLeftIn)
		fmt.Fprintf(&b, "- ROI: %.2f%%\n", res.BRR.ROI)
	}
	if res.Flip != nil {
		b.WriteString("\nRESALE STRATEGY:\n")
		fmt.Fprintf(&b, "- Projected Profit: £%.0f\n", res.Flip.Profit)
		fmt.Fprintf(&b, "- ROI: %.2f%%\n", res.Flip.ROI)
	}

	writeMarketContext(&b, res.Area)

	b.WriteString(`
Please provide:

1. INVESTMENT VERDICT (2-3 sentences): whether this is a good deal and why
2. KEY STRENGTHS (3-4 bullet points): what makes this deal attractive
3. KEY RISKS (3-4 bullet points): what could go wrong or needs investigation
4. AREA ASSESSMENT (2-3 sentences): the postcode area's rental demand
5. RECOMMENDED NEXT STEPS (4-5 numbered items): actionable steps

Respond in plain text with those five headed sections.`)

	return b.String()
}

func writeMarketContext(b *strings.Builder, area *model.AreaContext) {
	if area == nil {
		b.WriteString("\nMARKET DATA: No external market data available\n")
		return
	}

	b.WriteString("\nMARKET DATA:\n")
	if area.PriceTrend != nil {
		fmt.Fprintf(b, "- Price Trend: %s (%.1f%% change over six months)\n",
			area.PriceTrend.Trend, area.PriceTrend.ChangePercent)
	}
	if len(area.SoldPrices) > 0 {
		b.WriteString("- Recent Comparable Sales:\n")
		for i, sale := range area.SoldPrices {
			if i == 3 {
				break
			}
			fmt.Fprintf(b, "  %d. £%d on %s", i+1, sale.Price, sale.Date)
			if sale.Street != "" {
				fmt.Fprintf(b, " - %s", sale.Street)
			}
			b.WriteString("\n")
		}
	}
	if area.Rental != nil {
		fmt.Fprintf(b, "- Market Rent Estimate: £%.0f/month (£%.0f-£%.0f)\n",
			area.Rental.EstimateMonthly, area.Rental.LowMonthly, area.Rental.HighMonthly)
	}
	if area.Market != nil {
		if area.Market.AveragePrice > 0 {
			fmt.Fprintf(b, "- Area Average Price: £%.0f\n", area.Market.AveragePrice)
		}
		if area.Market.AverageYield > 0 {
			fmt.Fprintf(b, "- Area Average Yield: %.1f%%\n", area.Market.AverageYield)
		}
		if area.Market.Demand != "" {
			fmt.Fprintf(b, "- Tenant Demand: %s\n", area.Market.Demand)
		}
		if area.Market.CrimeRating != "" {
			fmt.Fprintf(b, "- Crime Rating: %s\n", area.Market.CrimeRating)
		}
	}
	if area.Transport != nil {
		fmt.Fprintf(b, "- Transport Access: %s (%d/100)\n",
			area.Transport.Rating, area.Transport.Score)
	}
}
