package analytics

import (
	"fmt"

	"github.com/AngelCh415/admira-dash/internal/models"
)

type stagePair struct{ from, to models.Stage }

var bottleneckSuggestions = map[stagePair]string{
	{models.StageLeads, models.StageProspecting}:    "Garanta o primeiro contato em até 24h: distribua os leads novos entre os responsáveis todos os dias.",
	{models.StageProspecting, models.StageTriage}:   "Revise o roteiro de abordagem e aumente a cadência de tentativas antes de descartar o lead.",
	{models.StageTriage, models.StageProposal}:      "Qualifique melhor na triagem: confirme orçamento e necessidade antes de agendar a proposta.",
	{models.StageProposal, models.StageFollowUp}:    "Envie a proposta no mesmo dia da reunião e agende o follow-up antes de encerrar a conversa.",
	{models.StageFollowUp, models.StageNegotiation}: "Padronize os follow-ups com prazos curtos e provas sociais para reativar o interesse.",
	{models.StageNegotiation, models.StageWon}:      "Trate objeções de preço com condições de pagamento e validade curta na proposta.",
}

// Suggestion returns the canned remediation for a stage pair, empty if none exists.
func Suggestion(from, to models.Stage) string { return bottleneckSuggestions[stagePair{from, to}] }

// RiskCounts inspects the active leads of the cohort. The three counts may overlap;
// ValueAtRisk sums each risky lead once.
func RiskCounts(cohort []models.Lead) models.RiskCounts {
	var r models.RiskCounts
	for _, l := range cohort {
		if !l.Status.Active() {
			continue
		}
		risky := false
		if isNotApproached(l.Prospecting) {
			r.NotApproached++
			risky = true
		}
		if l.Status < models.StageFollowUp && isLastAttempt(l.Prospecting) {
			r.LastAttemptProspecting++
			risky = true
		}
		if (l.Status == models.StageFollowUp || l.Status == models.StageNegotiation) && isLastAttempt(l.FollowUp) {
			r.LastFollowUp++
			risky = true
		}
		if risky {
			r.ValueAtRisk += l.Value
		}
	}
	return r
}

// SelectAlert picks the single alert to show: leads at risk first, then a funnel
// bottleneck below the severity threshold, otherwise none.
func SelectAlert(risk models.RiskCounts, convs []models.FunnelConversion, p Params) *models.Alert {
	if total := risk.Total(); total > 0 {
		msg := fmt.Sprintf("%d não abordados, %d na última tentativa de prospecção e %d no último follow-up.",
			risk.NotApproached, risk.LastAttemptProspecting, risk.LastFollowUp)
		return &models.Alert{
			Type:        models.AlertCritical,
			Title:       fmt.Sprintf("%d leads em risco", total),
			Message:     msg,
			Suggestion:  "Priorize hoje o contato com esses leads antes que esfriem.",
			ValueAtRisk: risk.ValueAtRisk,
		}
	}
	weakest := WeakestConversion(convs)
	if weakest == nil || weakest.Rate >= p.BottleneckThreshold {
		return nil
	}
	from, to := StageLabel(weakest.From), StageLabel(weakest.To)
	return &models.Alert{
		Type:       models.AlertBottleneck,
		Title:      fmt.Sprintf("Gargalo entre %s e %s", from, to),
		Message:    fmt.Sprintf("Apenas %.1f%% dos leads avançam de %s para %s.", weakest.Rate, from, to),
		Suggestion: Suggestion(weakest.From, weakest.To),
		Conversion: weakest,
	}
}
