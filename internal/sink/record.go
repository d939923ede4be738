package sink

import (
	"github.com/ppiankov/dartxbrl/internal/model"
)

// Record is the flat column layout shared by every sink
type Record struct {
	OrderNo     int32   `json:"order_no" parquet:"name=order_no, type=INT32"`
	Year        string  `json:"yyyy" parquet:"name=yyyy, type=BYTE_ARRAY, convertedtype=UTF8"`
	Month       string  `json:"month" parquet:"name=month, type=BYTE_ARRAY, convertedtype=UTF8"`
	CorpCode    string  `json:"corp_code" parquet:"name=corp_code, type=BYTE_ARRAY, convertedtype=UTF8"`
	CorpName    string  `json:"corp_name" parquet:"name=corp_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	ReportType  string  `json:"report_type" parquet:"name=report_type, type=BYTE_ARRAY, convertedtype=UTF8"`
	ReportName  string  `json:"report_name" parquet:"name=report_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	ConceptID   string  `json:"concept_id" parquet:"name=concept_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	LabelKo     string  `json:"label_ko" parquet:"name=label_ko, type=BYTE_ARRAY, convertedtype=UTF8"`
	LabelEn     string  `json:"label_en" parquet:"name=label_en, type=BYTE_ARRAY, convertedtype=UTF8"`
	Class1      string  `json:"class1" parquet:"name=class1, type=BYTE_ARRAY, convertedtype=UTF8"`
	Class2      string  `json:"class2" parquet:"name=class2, type=BYTE_ARRAY, convertedtype=UTF8"`
	Class3      string  `json:"class3" parquet:"name=class3, type=BYTE_ARRAY, convertedtype=UTF8"`
	Class1ID    string  `json:"class1_id" parquet:"name=class1_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Class2ID    string  `json:"class2_id" parquet:"name=class2_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Class3ID    string  `json:"class3_id" parquet:"name=class3_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	FSType      string  `json:"fs_type" parquet:"name=fs_type, type=BYTE_ARRAY, convertedtype=UTF8"`
	Period      string  `json:"period" parquet:"name=period, type=BYTE_ARRAY, convertedtype=UTF8"`
	PeriodLabel string  `json:"period_label" parquet:"name=period_label, type=BYTE_ARRAY, convertedtype=UTF8"`
	Amount      float64 `json:"amount" parquet:"name=amount, type=DOUBLE"`
	AmountText  string  `json:"amount_text" parquet:"name=amount_text, type=BYTE_ARRAY, convertedtype=UTF8"`
	ReceiptYMD  string  `json:"receipt_ymd" parquet:"name=receipt_ymd, type=BYTE_ARRAY, convertedtype=UTF8"`
	CrawlTime   int64   `json:"crawl_time" parquet:"name=crawl_time, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
}

// NewRecord flattens a finalized row. amount_text keeps the exact decimal.
func NewRecord(r model.PivotRow) Record {
	amount, _ := r.Amount.Float64()
	return Record{
		OrderNo:     int32(r.Order),
		Year:        r.Year,
		Month:       r.Month,
		CorpCode:    r.EntityCode,
		CorpName:    r.EntityName,
		ReportType:  string(r.Statement),
		ReportName:  r.Statement.ReportName(),
		ConceptID:   r.ConceptID,
		LabelKo:     r.LabelKo,
		LabelEn:     r.LabelEn,
		Class1:      r.Class[0],
		Class2:      r.Class[1],
		Class3:      r.Class[2],
		Class1ID:    r.ClassID[0],
		Class2ID:    r.ClassID[1],
		Class3ID:    r.ClassID[2],
		FSType:      string(r.Scope),
		Period:      r.Period.String(),
		PeriodLabel: PeriodLabel(r),
		Amount:      amount,
		AmountText:  r.Amount.String(),
		ReceiptYMD:  r.ReceiptDate,
		CrawlTime:   r.ProcessedAt.UnixMilli(),
	}
}

// NewRecords flattens rows in order
func NewRecords(rows []model.PivotRow) []Record {
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = NewRecord(r)
	}
	return out
}
