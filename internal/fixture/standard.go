package fixture

import "github.com/ppiankov/dartxbrl/internal/xbrl"

// Standard filing facts: a half-year report of entity 00171636 dated 2025-06-30
// with a stale 2023 year-end comparative and a stale 2024 half-year.
const (
	StandardEntity     = "00171636"
	StandardReportDate = "2025-06-30"
	StandardInstance   = "entity00171636_2025-06-30.xbrl"
)

// StandardInstanceDoc builds the instance of the standard filing
func StandardInstanceDoc() *Instance {
	b := NewInstance(StandardEntity).
		Instant("BS2025", "2025-06-30").
		Instant("BS2024", "2024-12-31").
		Instant("BS2023", "2023-12-31").
		Instant("BS2025S", "2025-06-30", Separate).
		Instant("BS2025SEG", "2025-06-30", Dim{Axis: "ifrs-full:SegmentsAxis", Member: "entity00171636:MemorySegmentMember"}).
		Duration("IS2025H1", "2025-01-01", "2025-06-30").
		Duration("IS2025Q2", "2025-04-01", "2025-06-30").
		Duration("IS2024H1", "2024-01-01", "2024-06-30")

	b.Text("dei:DocumentPeriodEndDate", "IS2025H1", "2025-06-30")

	for _, v := range []struct{ ctx, cash, ca, ppe, nca, assets string }{
		{"BS2025", "100", "100", "500", "500", "600"},
		{"BS2024", "90", "90", "450", "450", "540"},
		{"BS2023", "80", "80", "400", "400", "480"},
	} {
		b.Fact("ifrs-full:CashAndCashEquivalents", v.ctx, v.cash).
			Fact("ifrs-full:CurrentAssets", v.ctx, v.ca).
			Fact("ifrs-full:PropertyPlantAndEquipment", v.ctx, v.ppe).
			Fact("ifrs-full:NoncurrentAssets", v.ctx, v.nca).
			Fact("ifrs-full:Assets", v.ctx, v.assets)
	}
	b.Fact("ifrs-full:PropertyPlantAndEquipment", "BS2025S", "300").
		Fact("ifrs-full:PropertyPlantAndEquipment", "BS2025SEG", "120").
		Fact("ifrs-full:TradeAndOtherCurrentPayables", "BS2025", "200").
		Fact("ifrs-full:Liabilities", "BS2025", "200").
		Fact("ifrs-full:IssuedCapital", "BS2025", "350").
		Fact("ifrs-full:RetainedEarnings", "BS2025", "40").
		Fact("ifrs-full:Equity", "BS2025", "400").
		Fact("ifrs-full:EquityAndLiabilities", "BS2025", "600")

	for _, v := range []struct{ ctx, revenue, profit string }{
		{"IS2025H1", "1000", "100"},
		{"IS2025Q2", "600", "60"},
		{"IS2024H1", "900", "-80"},
	} {
		b.Fact("ifrs-full:Revenue", v.ctx, v.revenue).
			Fact("ifrs-full:ProfitLoss", v.ctx, v.profit)
	}
	b.Fact("ifrs-full:ComprehensiveIncome", "IS2025H1", "110").
		Fact("ifrs-full:AverageNumberOfEmployees", "IS2025H1", "120")

	return b
}

// StandardPresentation is the presentation linkbase of the standard filing
func StandardPresentation() []byte {
	return Presentation(
		Network{Role: RoleBalanceSheet, Edges: []Edge{
			{Parent: "ifrs-full:StatementOfFinancialPositionAbstract", Child: "ifrs-full:AssetsAbstract", Order: 1},
			{Parent: "ifrs-full:StatementOfFinancialPositionAbstract", Child: "ifrs-full:LiabilitiesAbstract", Order: 2},
			{Parent: "ifrs-full:StatementOfFinancialPositionAbstract", Child: "ifrs-full:EquityAbstract", Order: 3},
			{Parent: "ifrs-full:StatementOfFinancialPositionAbstract", Child: "ifrs-full:EquityAndLiabilities", Order: 4},
			{Parent: "ifrs-full:AssetsAbstract", Child: "ifrs-full:CurrentAssets", Order: 1},
			{Parent: "ifrs-full:AssetsAbstract", Child: "ifrs-full:NoncurrentAssets", Order: 2},
			{Parent: "ifrs-full:AssetsAbstract", Child: "ifrs-full:Assets", Order: 3},
			{Parent: "ifrs-full:CurrentAssets", Child: "ifrs-full:CashAndCashEquivalents", Order: 1},
			{Parent: "ifrs-full:NoncurrentAssets", Child: "ifrs-full:PropertyPlantAndEquipment", Order: 1},
			{Parent: "ifrs-full:LiabilitiesAbstract", Child: "ifrs-full:TradeAndOtherCurrentPayables", Order: 1},
			{Parent: "ifrs-full:LiabilitiesAbstract", Child: "ifrs-full:Liabilities", Order: 2},
			{Parent: "ifrs-full:EquityAbstract", Child: "ifrs-full:IssuedCapital", Order: 1},
			{Parent: "ifrs-full:EquityAbstract", Child: "ifrs-full:RetainedEarnings", Order: 2},
			{Parent: "ifrs-full:EquityAbstract", Child: "ifrs-full:Equity", Order: 3},
		}},
		Network{Role: RoleIncome, Edges: []Edge{
			{Parent: "ifrs-full:IncomeStatementAbstract", Child: "ifrs-full:Revenue", Order: 1},
			{Parent: "ifrs-full:IncomeStatementAbstract", Child: "ifrs-full:ProfitLoss", Order: 2},
		}},
		Network{Role: RoleComprehensive, Edges: []Edge{
			{Parent: "ifrs-full:StatementOfComprehensiveIncomeAbstract", Child: "ifrs-full:ProfitLoss", Order: 1},
			{Parent: "ifrs-full:StatementOfComprehensiveIncomeAbstract", Child: "ifrs-full:ComprehensiveIncome", Order: 2},
		}},
	)
}

// StandardCalculation is the calculation linkbase of the standard filing
func StandardCalculation() []byte {
	return Calculation(
		Network{Role: RoleBalanceSheet, Edges: []Edge{
			{Parent: "ifrs-full:Assets", Child: "ifrs-full:CurrentAssets", Order: 1},
			{Parent: "ifrs-full:Assets", Child: "ifrs-full:NoncurrentAssets", Order: 2},
			{Parent: "ifrs-full:Equity", Child: "ifrs-full:IssuedCapital", Order: 1},
			{Parent: "ifrs-full:Equity", Child: "ifrs-full:RetainedEarnings", Order: 2},
			{Parent: "ifrs-full:EquityAndLiabilities", Child: "ifrs-full:Liabilities", Order: 1},
			{Parent: "ifrs-full:EquityAndLiabilities", Child: "ifrs-full:Equity", Order: 2},
		}},
	)
}

// StandardLabelsKo are the Korean standard labels
var StandardLabelsKo = map[string]string{
	"ifrs-full:StatementOfFinancialPositionAbstract": "재무상태표 [개요]",
	"ifrs-full:AssetsAbstract":                       "자산 [개요]",
	"ifrs-full:CurrentAssets":                        "유동자산",
	"ifrs-full:CashAndCashEquivalents":               "현금및현금성자산",
	"ifrs-full:NoncurrentAssets":                     "비유동자산",
	"ifrs-full:PropertyPlantAndEquipment":            "유형자산",
	"ifrs-full:Assets":                               "자산총계",
	"ifrs-full:LiabilitiesAbstract":                  "부채 [개요]",
	"ifrs-full:TradeAndOtherCurrentPayables":         "매입채무 및 기타유동채무",
	"ifrs-full:Liabilities":                          "부채총계",
	"ifrs-full:EquityAbstract":                       "자본 [개요]",
	"ifrs-full:IssuedCapital":                        "자본금",
	"ifrs-full:RetainedEarnings":                     "이익잉여금",
	"ifrs-full:Equity":                               "자본총계",
	"ifrs-full:EquityAndLiabilities":                 "자본과부채총계",
	"ifrs-full:IncomeStatementAbstract":              "손익계산서 [개요]",
	"ifrs-full:Revenue":                              "수익(매출액)",
	"ifrs-full:ProfitLoss":                           "당기순이익(손실)",
	"ifrs-full:ComprehensiveIncome":                  "총포괄손익",
}

// StandardLabelsEn are the English standard labels (RetainedEarnings has none)
var StandardLabelsEn = map[string]string{
	"ifrs-full:StatementOfFinancialPositionAbstract": "Statement of financial position [abstract]",
	"ifrs-full:AssetsAbstract":                       "Assets [abstract]",
	"ifrs-full:CurrentAssets":                        "Current assets",
	"ifrs-full:CashAndCashEquivalents":               "Cash and cash equivalents",
	"ifrs-full:NoncurrentAssets":                     "Non-current assets",
	"ifrs-full:PropertyPlantAndEquipment":            "Property, plant and equipment",
	"ifrs-full:Assets":                               "Total assets",
	"ifrs-full:LiabilitiesAbstract":                  "Liabilities [abstract]",
	"ifrs-full:TradeAndOtherCurrentPayables":         "Trade and other current payables",
	"ifrs-full:Liabilities":                          "Total liabilities",
	"ifrs-full:EquityAbstract":                       "Equity [abstract]",
	"ifrs-full:IssuedCapital":                        "Issued capital",
	"ifrs-full:Equity":                               "Total equity",
	"ifrs-full:EquityAndLiabilities":                 "Total equity and liabilities",
	"ifrs-full:IncomeStatementAbstract":              "Income statement [abstract]",
	"ifrs-full:Revenue":                              "Revenue",
	"ifrs-full:ProfitLoss":                           "Profit (loss)",
	"ifrs-full:ComprehensiveIncome":                  "Comprehensive income",
}

// StandardLinkbases returns the linkbase documents keyed by file name
func StandardLinkbases() map[string][]byte {
	return map[string][]byte{
		"entity00171636_2025-06-30_lab-ko.xml": Labels("ko", StandardLabelsKo),
		"entity00171636_2025-06-30_lab-en.xml": Labels("en", StandardLabelsEn),
		"entity00171636_2025-06-30_pre.xml":    StandardPresentation(),
		"entity00171636_2025-06-30_cal.xml":    StandardCalculation(),
	}
}

// Standard returns the complete standard filing package
func Standard() xbrl.Package {
	return Package(StandardInstance, StandardInstanceDoc().Bytes(), StandardLinkbases())
}
