package testdata

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/pocketledger/internal/model"
)

// Seed returns a sample guest dataset for demos and heavy tests. The rng
// is seeded by the caller-provided value so runs are reproducible.
func Seed(seed int64, months int) []model.Transaction {
	rng := rand.New(rand.NewSource(seed))
	now := time.Now().UTC()

	titles := map[string][]string{
		"Salary":         {"Monthly Salary", "Contract Payout"},
		"Food":           {"Groceries", "Coffee", "Takeaway", "Restaurant"},
		"Rent":           {"Apartment Rent"},
		"Entertainment":  {"Cinema", "Streaming", "Concert"},
		"Transportation": {"Fuel", "Train Pass", "Taxi"},
		"Other":          {"Gift", "Pharmacy", "Haircut"},
	}

	var out []model.Transaction
	for m := months - 1; m >= 0; m-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC).AddDate(0, -m, 0)

		salary := model.Transaction{
			ID:       model.NewLocalID(),
			Origin:   model.OriginLocal,
			Title:    titles["Salary"][rng.Intn(len(titles["Salary"]))],
			Amount:   decimal.NewFromInt(int64(3000 + rng.Intn(500))),
			Type:     model.TypeIncome,
			Category: "Salary",
			Date:     monthStart,
		}
		out = append(out, salary)

		for i := 0; i < 6+rng.Intn(6); i++ {
			cat := model.Categories[1+rng.Intn(len(model.Categories)-1)]
			names := titles[cat]
			amount := decimal.NewFromFloat(float64(rng.Intn(15000)+200) / 100).Round(2)
			out = append(out, model.Transaction{
				ID:       model.NewLocalID(),
				Origin:   model.OriginLocal,
				Title:    names[rng.Intn(len(names))],
				Amount:   amount,
				Type:     model.TypeExpense,
				Category: cat,
				Date:     monthStart.AddDate(0, 0, rng.Intn(27)),
			})
		}
	}

	// newest first, the order the dataset service keeps
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
