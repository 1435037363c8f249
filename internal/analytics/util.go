package analytics

import (
	"sort"

	"github.com/AngelCh415/admira-dash/internal/models"
	"github.com/AngelCh415/admira-dash/internal/utils"
)

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func pct(a, b float64) float64 { return safeDiv(a, b) * 100 }

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

const (
	tagNotApproached = "nao abordado"
	tagLastAttempt   = "ultima tentativa"
)

func isNotApproached(tag string) bool { return utils.Fold(tag) == tagNotApproached }

func isLastAttempt(tag string) bool { return utils.Fold(tag) == tagLastAttempt }

func isSentinel(s string) bool { return s == "" || s == models.NotAvailable }

// countTags tallies tag occurrences, sorted by count desc then name.
func countTags(tags []string) []models.TagCount {
	counts := map[string]int{}
	for _, t := range tags {
		counts[t]++
	}
	out := make([]models.TagCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, models.TagCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func filterLeads(leads []models.Lead, keep func(models.Lead) bool) []models.Lead {
	out := make([]models.Lead, 0, len(leads))
	for _, l := range leads {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

// avgCycleDays averages creation-to-close days over won leads with a closing date.
func avgCycleDays(leads []models.Lead) float64 {
	var days []float64
	for _, l := range leads {
		if l.Status != models.StageWon {
			continue
		}
		if d, ok := l.CycleDays(); ok {
			days = append(days, d)
		}
	}
	return mean(days)
}

// avgTicket is the won value divided by the won count.
func avgTicket(leads []models.Lead) float64 {
	n, v := 0, 0.0
	for _, l := range leads {
		if l.Status == models.StageWon {
			n++
			v += l.Value
		}
	}
	return safeDiv(v, float64(n))
}
