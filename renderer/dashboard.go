package renderer

import "github.com/etnz/carteira"

// Dashboard renders the valuation of the live positions.
func Dashboard(r *carteira.Result) string {
	return RenderDashboard(r, RenderOptions{})
}

// RenderDashboard renders the dashboard with options.
func RenderDashboard(r *carteira.Result, opts RenderOptions) string {
	partials := map[string]string{
		"dashboard_summary":   "dashboard_summary.md",
		"dashboard_holdings":  "dashboard_holdings.md",
		"dashboard_anomalies": "dashboard_anomalies.md",
	}
	if opts.SkipAnomalies {
		partials["dashboard_anomalies"] = ""
	}
	return renderTemplate("dashboard", "dashboard.md", partials, r)
}
