package analytics

import "strings"

// Per-1K-token prices in dollars.
var modelPricePer1K = map[string]float64{
	"gpt-4":         0.03,
	"gpt-3.5-turbo": 0.002,
}

// DefaultModel prices a model name that is not in the table.
const DefaultModel = "gpt-4"

// EstimateTokens approximates token count at four characters per token,
// rounded up.
func EstimateTokens(texts ...string) int {
	chars := 0
	for _, t := range texts {
		chars += len(t)
	}
	return (chars + 3) / 4
}

// EstimateCost prices a token count for a model.
func EstimateCost(tokens int, model string) float64 {
	price, ok := modelPricePer1K[strings.ToLower(strings.TrimSpace(model))]
	if !ok {
		price = modelPricePer1K[DefaultModel]
	}
	return float64(tokens) / 1000 * price
}
