package report

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Result.DealType }} Investment Analysis</title>
<style>
    body { font-family: 'Helvetica Neue', Arial, sans-serif; color: #1a1a2e; margin: 40px; }
    .header { text-align: center; margin-bottom: 10px; }
    .header h1 { margin: 0; font-size: 26px; }
    .header p { margin: 10px 0 0 0; color: #666; }
    .gold-line { height: 3px; background: #c9a227; margin-bottom: 30px; }
    .verdict-box { text-align: center; padding: 18px; border-radius: 10px; background: #f8f9fa; margin-bottom: 30px; }
    .verdict-title { font-size: 32px; font-weight: bold; }
    .metrics { display: flex; gap: 12px; margin-bottom: 30px; }
    .metric-card { flex: 1; text-align: center; padding: 14px; background: #f8f9fa; border-radius: 8px; }
    .metric-label { font-size: 11px; color: #666; text-transform: uppercase; margin-bottom: 8px; }
    .metric-value { font-size: 20px; font-weight: bold; }
    .section { margin-bottom: 30px; }
    .section h2 { font-size: 18px; border-bottom: 1px solid #ddd; padding-bottom: 6px; }
    .section h3 { font-size: 14px; margin-bottom: 8px; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
    td, th { padding: 7px 10px; border-bottom: 1px solid #eee; text-align: left; font-size: 13px; }
    th { background: #f8f9fa; }
    td:last-child, th:last-child { text-align: right; }
    .total-row td { font-weight: bold; border-top: 2px solid #1a1a2e; }
    ul { padding-left: 20px; }
    li { margin-bottom: 8px; font-size: 13px; }
    .score-box { text-align: center; padding: 20px; background: #f8f9fa; border-radius: 10px; }
    .score-value { font-size: 64px; font-weight: bold; }
    .fineprint { font-size: 11px; color: #666; margin-top: 10px; }
    .narrative { font-size: 13px; white-space: pre-wrap; }
    .footer { text-align: center; font-size: 11px; color: #999; margin-top: 40px; border-top: 1px solid #ddd; padding-top: 12px; }
</style>
</head>
<body>
<div class="header">
    <h1>{{ .Result.DealType }} Investment Analysis</h1>
    {{ if .Result.Address }}<p>{{ .Result.Address }}{{ if .Result.Postcode }}, {{ .Result.Postcode }}{{ end }}</p>
    {{ else if .Result.Postcode }}<p>{{ .Result.Postcode }}</p>{{ end }}
</div>
<div class="gold-line"></div>

<div class="verdict-box">
    <div class="verdict-title" style="color: {{ verdictColor .Result.Verdict }}">{{ .Result.Verdict }}</div>
    <p>Investment Recommendation</p>
</div>

<div class="metrics">
    <div class="metric-card">
        <div class="metric-label">Gross Yield</div>
        <div class="metric-value">{{ pct .Result.Ratios.GrossYield }}</div>
    </div>
    <div class="metric-card">
        <div class="metric-label">Monthly Cashflow</div>
        <div class="metric-value">{{ gbp .Result.Income.MonthlyCashflow }}</div>
    </div>
    <div class="metric-card">
        <div class="metric-label">Cash-on-Cash</div>
        <div class="metric-value">{{ pct .Result.Ratios.CashOnCash }}</div>
    </div>
    <div class="metric-card">
        <div class="metric-label">Risk Level</div>
        <div class="metric-value">{{ .Result.Risk.Overall }}</div>
    </div>
</div>

<div class="section">
    <h2>Deal Score</h2>
    <div class="score-box">
        <div class="score-value" style="color: {{ scoreColor .Result.Score }};">{{ .Result.Score }}</div>
        <div style="font-size: 20px; color: #666;">out of 100</div>
        <div style="font-size: 16px; color: {{ scoreColor .Result.Score }}; margin-top: 10px;">{{ .Result.ScoreLabel }}</div>
    </div>
</div>

<div class="section">
    <h2>Financial Summary</h2>
    <table>
        <tr><td>Stamp Duty</td><td>{{ gbp .Result.Costs.StampDuty }}</td></tr>
        <tr><td>Legal Fees</td><td>{{ gbp .Result.Costs.LegalFee }}</td></tr>
        <tr><td>Valuation Fee</td><td>{{ gbp .Result.Costs.ValuationFee }}</td></tr>
        <tr><td>Arrangement Fee</td><td>{{ gbp .Result.Costs.ArrangementFee }}</td></tr>
        <tr class="total-row"><td>Total Purchase Costs</td><td>{{ gbp .Result.Costs.TotalPurchaseCosts }}</td></tr>
    </table>

    <h3>Financing</h3>
    <table>
        <tr><td>Deposit</td><td>{{ gbp .Result.Costs.DepositAmount }}</td></tr>
        <tr><td>Loan Amount</td><td>{{ gbp .Result.Costs.LoanAmount }}</td></tr>
        <tr><td>Monthly Mortgage (interest only)</td><td>{{ gbpPence .Result.Income.MonthlyMortgage }}</td></tr>
        <tr><td>Cash Invested</td><td>{{ gbp .Result.CashInvested }}</td></tr>
    </table>

    {{ if gt .Result.Income.AnnualRent 0.0 }}
    <h3>Annual Returns</h3>
    <table>
        <tr><td>Annual Rent</td><td>{{ gbp .Result.Income.AnnualRent }}</td></tr>
        <tr><td>Management</td><td>{{ gbp .Result.Income.Expenses.Management }}</td></tr>
        <tr><td>Void Allowance</td><td>{{ gbp .Result.Income.Expenses.VoidAllowance }}</td></tr>
        <tr><td>Maintenance Reserve</td><td>{{ gbp .Result.Income.Expenses.MaintenanceReserve }}</td></tr>
        <tr><td>Insurance</td><td>{{ gbp .Result.Income.Expenses.Insurance }}</td></tr>
        <tr><td>Total Expenses</td><td>{{ gbp .Result.Income.Expenses.Total }}</td></tr>
        <tr class="total-row"><td>Net Annual Income</td><td>{{ gbp .Result.Income.NetAnnualIncome }}</td></tr>
    </table>
    {{ end }}
</div>

{{ with .Result.BRR }}
<div class="section">
    <h2>Refinance Analysis</h2>
    <table>
        <tr><td>Total Investment</td><td>{{ gbp .TotalInvestment }}</td></tr>
        <tr><td>Equity Created</td><td>{{ gbp .EquityCreated }}</td></tr>
        <tr><td>Refinance Amount</td><td>{{ gbp .RefinanceAmount }}</td></tr>
        <tr><td>Money Left In</td><td>{{ gbp .MoneyLeftIn }}</td></tr>
        <tr class="total-row"><td>Return on Investment</td><td>{{ pct .ROI }}</td></tr>
    </table>
</div>
{{ end }}

{{ with .Result.Flip }}
<div class="section">
    <h2>Resale Analysis</h2>
    <table>
        <tr><td>Total Costs</td><td>{{ gbp .TotalCosts }}</td></tr>
        <tr><td>Selling Costs</td><td>{{ gbp .SellingCosts }}</td></tr>
        <tr><td>Projected Profit</td><td>{{ gbp .Profit }}</td></tr>
        <tr class="total-row"><td>Return on Investment</td><td>{{ pct .ROI }}</td></tr>
    </table>
</div>
{{ end }}

<div class="section">
    <h2>Risk Assessment</h2>
    <table>
        <tr><td>Market</td><td>{{ .Result.Risk.Market }}</td></tr>
        <tr><td>Tenant Demand</td><td>{{ .Result.Risk.TenantDemand }}</td></tr>
        <tr><td>Refurbishment</td><td>{{ .Result.Risk.Refurb }}</td></tr>
        <tr><td>Finance</td><td>{{ .Result.Risk.Finance }}</td></tr>
        <tr class="total-row"><td>Overall</td><td>{{ .Result.Risk.Overall }}</td></tr>
    </table>
</div>

{{ if .Result.Projection }}
<div class="section">
    <h2>Five-Year Projection</h2>
    <table>
        <tr>
            <th>Year</th><th>Annual Rent</th><th>Annual Net</th>
            <th>Cumulative Cashflow</th><th>Property Value</th><th>Total Return</th>
        </tr>
        {{ range .Result.Projection }}
        <tr>
            <td>Year {{ .Year }}</td>
            <td>{{ gbp .AnnualRent }}</td>
            <td>{{ gbp .AnnualNet }}</td>
            <td>{{ gbp .CumulativeCashflow }}</td>
            <td>{{ gbp .PropertyValue }}</td>
            <td>{{ gbp .TotalReturn }}</td>
        </tr>
        {{ end }}
    </table>
    <p class="fineprint"><strong>Assumptions:</strong> projected rent and capital growth are
    estimates only and not guaranteed.</p>
</div>
{{ end }}

<div class="section">
    <h2>Investment Analysis</h2>
    {{ if .Result.Strengths }}
    <h3>Strengths</h3>
    <ul>{{ range .Result.Strengths }}<li>{{ . }}</li>{{ end }}</ul>
    {{ end }}
    {{ if .Result.Weaknesses }}
    <h3>Weaknesses</h3>
    <ul>{{ range .Result.Weaknesses }}<li>{{ . }}</li>{{ end }}</ul>
    {{ end }}
</div>

{{ if .Result.NextSteps }}
<div class="section">
    <h2>Recommended Next Steps</h2>
    <ul>{{ range .Result.NextSteps }}<li>{{ . }}</li>{{ end }}</ul>
</div>
{{ end }}

{{ with .Result.Area }}
<div class="section">
    <h2>Area Intelligence</h2>
    {{ with .PriceTrend }}
    <p class="fineprint">Local prices are <strong>{{ .Trend }}</strong>
    ({{ printf "%+.1f" .ChangePercent }}% over the last six months,
    {{ .RecentSales }} recent sales).</p>
    {{ end }}
    {{ if .SoldPrices }}
    <h3>Recent Sold Prices</h3>
    <table>
        <tr><th>Date</th><th>Street</th><th>Price</th></tr>
        {{ range .SoldPrices }}
        <tr><td>{{ .Date }}</td><td>{{ .Street }}</td><td>{{ gbp (toFloat .Price) }}</td></tr>
        {{ end }}
    </table>
    {{ end }}
    {{ with .Rental }}
    <p class="fineprint">Market rent estimate: {{ gbp .EstimateMonthly }}/month
    ({{ gbp .LowMonthly }} – {{ gbp .HighMonthly }}).</p>
    {{ end }}
    {{ with .Market }}
    <table>
        {{ if .AveragePrice }}<tr><td>Area Average Price</td><td>{{ gbp .AveragePrice }}</td></tr>{{ end }}
        {{ if .AverageYield }}<tr><td>Area Average Yield</td><td>{{ pct .AverageYield }}</td></tr>{{ end }}
        {{ if .Demand }}<tr><td>Tenant Demand</td><td>{{ .Demand }}</td></tr>{{ end }}
        {{ if .CrimeRating }}<tr><td>Crime Rating</td><td>{{ .CrimeRating }}</td></tr>{{ end }}
    </table>
    {{ end }}
    {{ with .Transport }}
    <h3>Transport ({{ .Rating }}, {{ .Score }}/100)</h3>
    <table>
        <tr><th>Station</th><th>Distance</th></tr>
        {{ range .Stations }}
        <tr><td>{{ .Name }}</td><td>{{ printf "%.1f km" .DistanceKm }}</td></tr>
        {{ end }}
    </table>
    {{ end }}
</div>
{{ end }}

{{ if .Result.Narrative }}
<div class="section">
    <h2>Analyst Commentary</h2>
    <p class="narrative">{{ .Result.Narrative }}</p>
</div>
{{ end }}

<div class="footer">
    {{ .Brand }} | Deal Analysis Report | Generated: {{ .Date }}
</div>
</body>
</html>
`
