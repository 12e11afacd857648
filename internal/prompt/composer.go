// Package prompt renders a dossier into the natural-language document sent
// to the model. Composition is deterministic: byte-identical inputs always
// produce a byte-identical document, which is what makes prompt-level
// caching and golden tests possible.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/opensource-finance/heron/internal/domain"
)

// CrossRefs carries the alert-specific lookup tables. A missing table for
// an alert type that expects one skips that alert block entirely.
type CrossRefs struct {
	BettingHouses   []domain.Record
	PepTransactions []domain.Record
	AIFeatures      string
}

// Compose renders the full prompt document for one case.
func Compose(d *domain.Dossier, alertType domain.AlertType, refs CrossRefs) string {
	var b strings.Builder

	role := d.Role.Label()
	fmt.Fprintf(&b, preamble, alertType, role, marshalIndent(d.Profile))

	writePixTotals(&b, d)

	if d.Role == domain.RoleMerchant {
		writeSection(&b, "Concentração de Transações por Portador de Cartão:", d.CardholderConcentration)
		writeSection(&b, "Concentração de Issuing:", d.IssuingConcentration)
		writeSection(&b, "Transações Negadas:", d.DeniedTransactions)
		writeSection(&b, "Histórico Profissional:", d.BusinessData)
		writeSection(&b, "Transações Confirmadamente Executadas Dentro do Presídio (Atenção especial às colunas status e transaction_type. Transações negadas ou com errors também devem ser consideradas):", d.PrisonTransactions)
		writeSection(&b, "Contatos:", d.Contacts)
		writeSection(&b, "Dispositivos Utilizados:", d.Devices)
		writeSection(&b, "Produtos na Loja InfinitePay:", d.ProductsOnline)
		writeSection(&b, "Sanções Judiciais (Dê detalhes sobre o caso durante a análise. Pensão alimentícia ou casos de família podem ser desconsiderados):", d.SanctionsHistory)
		writeSection(&b, "Transação PIX Negadas e motivo (coluna risk_check):", d.DeniedPixTransfers)
		writePixConcentrations(&b, d)
		writeSection(&b, "Informações sobre processos judiciais:", d.Lawsuits)
		writeSection(&b, "Histórico de Offenses:", d.OffenseHistory)
	} else {
		writeSection(&b, "Concentração de Issuing:", d.IssuingConcentration)
		writeSection(&b, "Contatos (Atenção para contatos com status 'blocked'):", d.Contacts)
		writeSection(&b, "Dispositivos Utilizados (atenção para número elevado de dispositivos):", d.Devices)
		writeSection(&b, "Sanções Judiciais (Dê detalhes sobre o caso durante a análise. Pensão alimentícia ou casos de família podem ser desconsiderados):", d.SanctionsHistory)
		writeSection(&b, "Transação PIX Negadas e motivo (coluna risk_check):", d.DeniedPixTransfers)
		writePixConcentrations(&b, d)
		writeSection(&b, "Histórico Profissional:", d.BusinessData)
		writeSection(&b, "Informações sobre processos judiciais:", d.Lawsuits)
		writeSection(&b, "Transações Confirmadamente Executadas Dentro do Presídio (Atenção especial às colunas status e transaction_type. Transações negadas ou com errors também devem ser consideradas):", d.PrisonTransactions)
		writeSection(&b, "Histórico de Offenses:", d.OffenseHistory)
	}

	writeAlertBlock(&b, alertType, refs)

	b.WriteString(closing)

	return b.String()
}

func writePixTotals(b *strings.Builder, d *domain.Dossier) {
	fmt.Fprintf(b, `
Total de Transações PIX:
- Cash In: R$%s
- Cash Out: R$%s

Transações em Horários Atípicos:
- Cash In PIX: R$%s
- Cash Out PIX: R$%s
`,
		formatAmount(d.TotalCashIn),
		formatAmount(d.TotalCashOut),
		formatAmount(d.TotalCashInAtypical),
		formatAmount(d.TotalCashOutAtypical),
	)
}

func writePixConcentrations(b *strings.Builder, d *domain.Dossier) {
	fmt.Fprintf(b, "\nConcentrações PIX:\nCash In:\n%s\nCash Out:\n%s\n",
		marshalIndent(d.PixCashIn),
		marshalIndent(d.PixCashOut),
	)
}

func writeSection(b *strings.Builder, title string, records []domain.Record) {
	fmt.Fprintf(b, "\n%s\n%s\n", title, marshalIndent(records))
}

// writeAlertBlock appends the alert-specific instruction template. Unknown
// alert types and known types whose cross-reference table is missing get
// no block at all.
func writeAlertBlock(b *strings.Builder, alertType domain.AlertType, refs CrossRefs) {
	switch alertType {
	case domain.AlertBettingHouses:
		if len(refs.BettingHouses) == 0 {
			return
		}
		fmt.Fprintf(b, bettingHousesTemplate, marshalIndent(refs.BettingHouses))
	case domain.AlertGovernmentCards:
		b.WriteString(governmentCardsTemplate)
	case domain.AlertCardholderPix:
		b.WriteString(cardholderPixTemplate)
	case domain.AlertMerchantPix:
		b.WriteString(merchantPixTemplate)
	case domain.AlertInternationalCards:
		b.WriteString(internationalCardsTemplate)
	case domain.AlertBankSlips:
		b.WriteString(bankSlipsTemplate)
	case domain.AlertGAFI:
		b.WriteString(gafiTemplate)
	case domain.AlertPepPix:
		if len(refs.PepTransactions) == 0 {
			return
		}
		fmt.Fprintf(b, pepPixTemplate, marshalIndent(refs.PepTransactions))
	case domain.AlertAIModel:
		if refs.AIFeatures == "" {
			return
		}
		fmt.Fprintf(b, aiModelTemplate, refs.AIFeatures)
	case domain.AlertIssuingTransactions:
		b.WriteString(issuingTransactionsTemplate)
	}
}

// marshalIndent serializes a slice or record for inclusion in the
// document. Map keys come out sorted, so serialization is stable; HTML
// escaping is off to keep the text readable for the model.
func marshalIndent(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "[]"
	}
	return strings.TrimRight(buf.String(), "\n")
}

// formatAmount renders a currency value with thousands separators and two
// decimal places, e.g. 1234567.5 -> "1,234,567.50".
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")
	var out strings.Builder
	if neg {
		out.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	out.WriteByte('.')
	out.WriteString(frac)
	return out.String()
}
