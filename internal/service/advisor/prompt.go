package advisor

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/taxfiler/backend/internal/model/tax"
)

const systemPrompt = "You are an AI assistant providing general tax information."

// buildTaxPrompt renders the fixed advisory prompt. Monetary fields carry
// thousands separators and two decimals; the country string is embedded
// verbatim.
func buildTaxPrompt(input tax.TaxInfoInput) string {
	var b strings.Builder

	b.WriteString("You are a helpful AI Tax Assistant providing general tax information.\n")
	b.WriteString("This advice is for informational and educational purposes only and NOT a substitute for professional tax advice.\n")
	b.WriteString("Do not ask follow-up questions, provide a concise summary based on the input.\n\n")

	b.WriteString("User's Tax Information:\n")
	fmt.Fprintf(&b, "- Country for Tax Purposes: %s\n", input.Country)
	fmt.Fprintf(&b, "- Annual Income: %s\n", formatMoney(input.Income))
	fmt.Fprintf(&b, "- Work-Related/Business Expenses: %s\n", formatMoney(input.ExpensesValue()))
	fmt.Fprintf(&b, "- Other Claimed Deductions: %s\n\n", formatMoney(input.DeductionsValue()))

	fmt.Fprintf(&b, "Based on this information for %s, provide some general tax considerations, potential deductions they might explore further, or common tax obligations they should be aware of. ", input.Country)
	b.WriteString("Keep the advice general and high-level. ")
	b.WriteString("Mention that tax laws vary greatly and change, so consulting a local tax professional is crucial.")

	return b.String()
}

func formatMoney(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
