package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/admira-dash/internal/models"
	"github.com/AngelCh415/admira-dash/internal/utils"
)

// record is one CSV row keyed by header.
type record map[string]string

func (r record) get(col string) string { return strings.TrimSpace(r[col]) }

func (r record) or(col, def string) string {
	if v := r.get(col); v != "" {
		return v
	}
	return def
}

// readRecords parses a header-first CSV. Blank lines are skipped and short rows
// are padded; the published sheets are not always rectangular.
func readRecords(body io.Reader) ([]record, error) {
	rd := csv.NewReader(body)
	rd.FieldsPerRecord = -1
	rd.LazyQuotes = true
	rd.TrimLeadingSpace = true

	header, err := rd.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var out []record
	for {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(out)+1, err)
		}
		blank := true
		rec := make(record, len(header))
		for i, h := range header {
			if i < len(row) {
				rec[h] = row[i]
				if strings.TrimSpace(row[i]) != "" {
					blank = false
				}
			}
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ParseResult carries the parsed rows and how many were dropped.
type ParseResult[T any] struct {
	Rows    []T
	Skipped int
}

// ParseLeads maps CRM export rows to leads.
func ParseLeads(body io.Reader, loc *time.Location) (ParseResult[models.Lead], error) {
	recs, err := readRecords(body)
	if err != nil {
		return ParseResult[models.Lead]{}, err
	}
	res := ParseResult[models.Lead]{Rows: make([]models.Lead, 0, len(recs))}
	seen := make(map[string]struct{}, len(recs))
	for i, r := range recs {
		l, ok := leadFrom(r, i, loc)
		if !ok {
			res.Skipped++
			continue
		}
		if _, dup := seen[l.ID]; dup {
			res.Skipped++
			continue
		}
		seen[l.ID] = struct{}{}
		res.Rows = append(res.Rows, l)
	}
	return res, nil
}

func leadFrom(r record, row int, loc *time.Location) (models.Lead, bool) {
	created, ok := ParseDate(r.get("Data Criação"), loc)
	if !ok {
		return models.Lead{}, false
	}
	l := models.Lead{
		ID:           r.or("ID", "generated-id-"+strconv.Itoa(row)),
		Name:         r.get("Nome"),
		Status:       models.StageFromTag(utils.Normalize(r.get("Status"))),
		CreatedAt:    created,
		UpdatedAt:    created,
		AssignedRep:  r.or("Responsável", models.NotAvailable),
		Value:        ParseNumber(r.get("Valor")),
		Prospecting:  r.or("Prospecção", models.NotAvailable),
		FollowUp:     r.get("FollowUp"),
		LossReason:   r.or("Motivo Perda", models.NotAvailable),
		Source:       r.or("Origem", models.NotAvailable),
		CampaignName: r.get("Campanha"),
		BusinessType: r.or("Tipo Negócio", models.NotAvailable),
		ServiceType:  r.or("Serviço", models.NotAvailable),
		Temperature:  strings.ToUpper(r.or("Temperatura", models.NotAvailable)),
		Email:        r.get("Email"),
		Phone:        r.get("Telefone"),
	}
	if t, ok := ParseDate(r.get("Data Atualização"), loc); ok {
		l.UpdatedAt = t
	}
	if t, ok := ParseDate(r.get("Data Fechamento"), loc); ok {
		l.ClosedAt = &t
	} else if l.Status.Terminal() && l.UpdatedAt.After(l.CreatedAt) {
		t := l.UpdatedAt
		l.ClosedAt = &t
	}
	if l.Value < 0 {
		l.Value = 0
	}
	return l, true
}

// ParseCampaigns maps ads export rows to campaign rows.
func ParseCampaigns(body io.Reader, loc *time.Location) (ParseResult[models.Campaign], error) {
	recs, err := readRecords(body)
	if err != nil {
		return ParseResult[models.Campaign]{}, err
	}
	res := ParseResult[models.Campaign]{Rows: make([]models.Campaign, 0, len(recs))}
	for _, r := range recs {
		start, ok := ParseDate(r.get("Início dos relatórios"), loc)
		name := r.get("Nome da campanha")
		if !ok || name == "" {
			res.Skipped++
			continue
		}
		res.Rows = append(res.Rows, models.Campaign{
			Name:        name,
			PeriodStart: start,
			Type:        campaignType(name),
			Niche:       campaignNiche(name),
			State:       utils.Normalize(r.or("Veiculação da campanha", models.NotAvailable)),
			AmountSpent: ParseNumber(r.get("Valor usado (BRL)")),
			Budget:      ParseNumber(r.get("Orçamento do conjunto de anúncios")),
			Reach:       ParseInt(r.get("Alcance")),
			Impressions: ParseInt(r.get("Impressões")),
			LinkClicks:  ParseInt(r.get("Cliques no link")),
			CTR:         ParseNumber(r.get("CTR (taxa de cliques no link)")),
			Leads:       ParseInt(r.get("Leads")),
			FormLeads:   ParseInt(r.get("LEAD FORMULARIO")),
		})
	}
	return res, nil
}

func campaignType(name string) string {
	n := strings.ToUpper(name)
	switch {
	case strings.Contains(n, "CADASTRO"):
		return "CADASTRO"
	case strings.Contains(n, "ENGAJAMENTO"):
		return "ENGAJAMENTO"
	case strings.Contains(n, "CONVERSÃO"), strings.Contains(n, "LEAD"):
		return "CONVERSÃO LP"
	}
	return "OUTRO"
}

func campaignNiche(name string) string {
	n := strings.ToUpper(name)
	switch {
	case strings.Contains(n, "FOTÓGRAF"), strings.Contains(n, "FOTOGRAF"):
		return "FOTÓGRAFOS"
	case strings.Contains(n, "NUTRICIONISTA"):
		return "NUTRICIONISTAS"
	}
	return "GERAL"
}
