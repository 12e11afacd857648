package prompt

import (
	"strings"
	"testing"

	"github.com/opensource-finance/heron/internal/domain"
)

func sampleDossier(role domain.Role) *domain.Dossier {
	d := domain.NewDossier(42, role)
	d.Profile = domain.Record{"full_name": "Fulano de Tal", "document_number": "***123**"}
	d.TotalCashIn = 15000.50
	d.TotalCashOut = 3200.00
	d.TotalCashInAtypical = 1200.00
	d.PixCashIn = []domain.Record{
		{"transaction_type": "Cash In", "counterparty_name": "Sicrano", "pix_amount": 15000.50},
	}
	d.Contacts = []domain.Record{{"name": "Beltrano", "status": "blocked"}}
	return d
}

func TestComposeDeterminism(t *testing.T) {
	d := sampleDossier(domain.RoleMerchant)
	refs := CrossRefs{
		BettingHouses: []domain.Record{{"betting_house": "BetExemplo", "document_number": "00000000000191"}},
	}

	first := Compose(d, domain.AlertBettingHouses, refs)
	second := Compose(d, domain.AlertBettingHouses, refs)

	if first != second {
		t.Error("identical inputs must produce byte-identical documents")
	}
}

func TestComposeStructure(t *testing.T) {
	d := sampleDossier(domain.RoleCardholder)
	doc := Compose(d, domain.AlertCardholderPix, CrossRefs{})

	for _, want := range []string{
		"Por favor, analise o caso abaixo.",
		"Tipo de Alerta: ch_alert [BR]",
		"Informação do Cardholder:",
		"- Cash In: R$15,000.50",
		"- Cash Out: R$3,200.00",
		"- Cash In PIX: R$1,200.00",
		"Cliente com possíveis anomalias em PIX.",
		"Risco de Lavagem de Dinheiro: [número]/10",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestComposeRoleBlocks(t *testing.T) {
	t.Run("MerchantSections", func(t *testing.T) {
		d := sampleDossier(domain.RoleMerchant)
		d.ProductsOnline = []domain.Record{{"product_name": "Celular"}}
		doc := Compose(d, domain.AlertMerchantPix, CrossRefs{})

		for _, want := range []string{
			"Informação do Merchant:",
			"Concentração de Transações por Portador de Cartão:",
			"Produtos na Loja InfinitePay:",
			"Transações Negadas:",
		} {
			if !strings.Contains(doc, want) {
				t.Errorf("merchant document missing %q", want)
			}
		}
	})

	t.Run("CardholderOmitsMerchantSections", func(t *testing.T) {
		doc := Compose(sampleDossier(domain.RoleCardholder), domain.AlertCardholderPix, CrossRefs{})

		for _, absent := range []string{
			"Concentração de Transações por Portador de Cartão:",
			"Produtos na Loja InfinitePay:",
		} {
			if strings.Contains(doc, absent) {
				t.Errorf("cardholder document should not contain %q", absent)
			}
		}
		if !strings.Contains(doc, "atenção para número elevado de dispositivos") {
			t.Error("cardholder document missing device-count emphasis")
		}
	})
}

func TestComposeAlertBlocks(t *testing.T) {
	d := sampleDossier(domain.RoleCardholder)

	t.Run("UnknownAlertTypeGetsNoBlock", func(t *testing.T) {
		doc := Compose(d, domain.AlertType("mystery_alert"), CrossRefs{})
		if strings.Contains(doc, "A primeira frase da sua análise") {
			t.Error("unknown alert type should not get an instruction block")
		}
		if !strings.Contains(doc, "Risco de Lavagem de Dinheiro: [número]/10") {
			t.Error("closing instruction must still be present")
		}
	})

	t.Run("BettingRequiresTable", func(t *testing.T) {
		doc := Compose(d, domain.AlertBettingHouses, CrossRefs{})
		if strings.Contains(doc, "casas de apostas") {
			t.Error("betting block should be skipped without the cross-reference table")
		}

		withTable := Compose(d, domain.AlertBettingHouses, CrossRefs{
			BettingHouses: []domain.Record{{"betting_house": "BetExemplo"}},
		})
		if !strings.Contains(withTable, "Cliente está transacionando com casas de apostas.") {
			t.Error("betting block missing when table present")
		}
		if !strings.Contains(withTable, "BetExemplo") {
			t.Error("betting table rows not rendered")
		}
	})

	t.Run("PepRequiresTable", func(t *testing.T) {
		doc := Compose(d, domain.AlertPepPix, CrossRefs{})
		if strings.Contains(doc, "Pessoas Politicamente Expostas") {
			t.Error("pep block should be skipped without the cross-reference table")
		}

		withTable := Compose(d, domain.AlertPepPix, CrossRefs{
			PepTransactions: []domain.Record{{"pep_name": "Deputado X", "job_description": "Deputado Federal"}},
		})
		if !strings.Contains(withTable, "Deputado X") {
			t.Error("pep table rows not rendered")
		}
	})

	t.Run("AIRequiresFeatures", func(t *testing.T) {
		doc := Compose(d, domain.AlertAIModel, CrossRefs{})
		if strings.Contains(doc, "anomalias identificadas pelo modelo de AI") {
			t.Error("ai block should be skipped without feature text")
		}

		withFeatures := Compose(d, domain.AlertAIModel, CrossRefs{AIFeatures: "pix_velocity acima do esperado"})
		if !strings.Contains(withFeatures, "pix_velocity acima do esperado") {
			t.Error("ai feature text not rendered")
		}
	})

	t.Run("GAFIBlock", func(t *testing.T) {
		doc := Compose(d, domain.AlertGAFI, CrossRefs{})
		if !strings.Contains(doc, "países proibidos do GAFI") {
			t.Error("gafi block missing")
		}
	})
}

func TestComposeEmptyDossier(t *testing.T) {
	d := domain.NewDossier(7, domain.RoleCardholder)
	doc := Compose(d, domain.AlertCardholderPix, CrossRefs{})

	if doc == "" {
		t.Fatal("empty dossier must still produce a document")
	}
	if !strings.Contains(doc, "- Cash In: R$0.00") {
		t.Error("zero totals should render as R$0.00")
	}
	if !strings.Contains(doc, "Histórico de Offenses:\n[]") {
		t.Error("empty slices should render as empty arrays")
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999.9, "999.90"},
		{1000, "1,000.00"},
		{15000.5, "15,000.50"},
		{1234567.891, "1,234,567.89"},
		{-4200.5, "-4,200.50"},
	}

	for _, tc := range cases {
		if got := formatAmount(tc.in); got != tc.want {
			t.Errorf("formatAmount(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
