package parser

import "strings"

// CategoryRule pairs a category name with the keywords that select it.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Categorizer assigns a category to a transaction by first-match keyword
// lookup over the lowercased description, branching on the sign of the
// amount. Rule order is significant: the first matching group wins.
type Categorizer struct {
	income  []CategoryRule
	expense []CategoryRule
}

var defaultIncomeRules = []CategoryRule{
	{Name: "Income – Paycheck", Keywords: []string{"payroll", "paycheck", "direct deposit", "salary", "wages"}},
	{Name: "Income – Refund", Keywords: []string{"refund", "reimburs", "cash back", "cashback", "rebate"}},
}

var defaultExpenseRules = []CategoryRule{
	{Name: "Rideshare", Keywords: []string{"uber", "lyft"}},
	{Name: "Fuel", Keywords: []string{"fuel", "chevron", "shell", "exxon", "maverik", "gas"}},
	{Name: "Groceries", Keywords: []string{"grocery", "groceries", "walmart", "kroger", "costco", "safeway", "aldi", "winco", "trader joe"}},
	{Name: "Dining", Keywords: []string{"restaurant", "cafe", "coffee", "starbucks", "mcdonald", "chipotle", "pizza", "doordash", "grubhub", "taco"}},
	{Name: "Subscriptions", Keywords: []string{"netflix", "spotify", "hulu", "disney", "subscription", "prime video", "youtube"}},
	{Name: "Housing", Keywords: []string{"rent", "mortgage", "hoa", "apartment", "lease"}},
	{Name: "Utilities", Keywords: []string{"utilit", "electric", "power", "water", "sewer", "internet", "comcast", "xfinity", "verizon", "t-mobile"}},
	{Name: "Fitness", Keywords: []string{"gym", "fitness", "crossfit", "vasa", "planet"}},
	{Name: "Insurance", Keywords: []string{"insurance", "geico", "allstate", "progressive", "state farm"}},
	{Name: "Shopping", Keywords: []string{"amazon", "target", "best buy", "ebay", "etsy"}},
}

// NewCategorizer returns a categorizer with the built-in keyword tables.
func NewCategorizer() *Categorizer {
	return &Categorizer{
		income:  defaultIncomeRules,
		expense: defaultExpenseRules,
	}
}

// Categorize is a pure function of its inputs. Positive amounts go through
// the income tables, everything else through the expense tables, with
// "Income – Other" / "Other" as catch-alls.
func (c *Categorizer) Categorize(description string, amount float64) string {
	desc := strings.ToLower(description)

	if amount > 0 {
		if name, ok := matchRules(c.income, desc); ok {
			return name
		}
		return "Income – Other"
	}

	if name, ok := matchRules(c.expense, desc); ok {
		return name
	}
	return "Other"
}

func matchRules(rules []CategoryRule, desc string) (string, bool) {
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, kw) {
				return rule.Name, true
			}
		}
	}
	return "", false
}
