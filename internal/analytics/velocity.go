package analytics

import (
	"sort"
	"time"

	"github.com/AngelCh415/admira-dash/internal/models"
)

var weekdayLabels = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

// AnalyzeVelocity estimates cycle time for the cohort. Per-stage time is the average
// cycle apportioned by the configured weights; the input carries no stage-transition
// history, so it is an estimate, not a measurement.
func AnalyzeVelocity(cohort []models.Lead, reps *models.ResponsibleAnalysis, p Params) *models.TimeFunnelAnalysis {
	p = p.withDefaults()
	avg := avgCycleDays(cohort)

	t := &models.TimeFunnelAnalysis{
		AvgTotalCycleTime: avg,
		Stages:            make([]models.StageTime, 0, len(p.StageWeights)),
		SalesByWeekday:    make([]models.WeekdayCount, 7),
		ByResponsible:     []models.RepVelocity{},
	}
	for _, w := range p.StageWeights {
		t.Stages = append(t.Stages, models.StageTime{Stage: w.Stage, Days: avg * w.Weight})
	}
	if avg > 0 {
		for i := range t.Stages {
			if t.Bottleneck == nil || t.Stages[i].Days > t.Bottleneck.Days {
				st := t.Stages[i]
				t.Bottleneck = &st
			}
		}
	}

	for d := range 7 {
		t.SalesByWeekday[d] = models.WeekdayCount{Weekday: time.Weekday(d), Label: weekdayLabels[d]}
	}
	for _, l := range cohort {
		if l.Status != models.StageWon || l.ClosedAt == nil {
			continue
		}
		t.SalesByWeekday[l.ClosedAt.Weekday()].Count++
	}

	if reps != nil {
		for _, r := range reps.Detailed {
			if r.AvgTimeToClose > 0 {
				t.ByResponsible = append(t.ByResponsible, models.RepVelocity{Name: r.Name, AvgDays: r.AvgTimeToClose})
			}
		}
		sort.Slice(t.ByResponsible, func(i, j int) bool {
			if t.ByResponsible[i].AvgDays != t.ByResponsible[j].AvgDays {
				return t.ByResponsible[i].AvgDays < t.ByResponsible[j].AvgDays
			}
			return t.ByResponsible[i].Name < t.ByResponsible[j].Name
		})
	}
	return t
}
