package assemble

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ppiankov/dartxbrl/internal/directory"
	"github.com/ppiankov/dartxbrl/internal/fixture"
	"github.com/ppiankov/dartxbrl/internal/model"
	"github.com/ppiankov/dartxbrl/internal/xbrl"
)

var (
	reportDate = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	fixedNow   = time.Date(2025, 8, 14, 9, 30, 0, 0, time.UTC)
)

type failingResolver struct{}

func (failingResolver) Resolve(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func testRows() []model.PivotRow {
	return []model.PivotRow{
		{Order: 1, ConceptID: "ifrs-full:Cash", Amount: decimal.NewFromInt(100), Period: model.InstantPeriod(reportDate)},
		{Order: 2, ConceptID: "ifrs-full:PPE", Amount: decimal.NewFromInt(500), Period: model.InstantPeriod(reportDate)},
	}
}

func TestBeginAndAssemble(t *testing.T) {
	g, err := xbrl.Load(fixture.Standard())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	a := New(directory.Static{"00171636": "에스케이하이닉스"}, false, nil).WithClock(func() time.Time { return fixedNow })

	run, diags, err := a.Begin(context.Background(), g, "", "", reportDate)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %+v", diags)
	}
	if run.EntityCode != "00171636" || run.EntityName != "에스케이하이닉스" {
		t.Errorf("unexpected entity: %s %s", run.EntityCode, run.EntityName)
	}
	if run.Year != "2025" || run.Month != "06" {
		t.Errorf("unexpected partition fields: %s/%s", run.Year, run.Month)
	}

	rows, _, err := a.Assemble(run, model.BalanceSheet, testRows())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	for _, r := range rows {
		if r.EntityCode != "00171636" || r.Statement != model.BalanceSheet || !r.ProcessedAt.Equal(fixedNow) {
			t.Errorf("row not stamped: %+v", r)
		}
	}
}

func TestBegin_SuppliedCodeWinsAndIsPadded(t *testing.T) {
	g, _ := xbrl.Load(fixture.Standard())
	a := New(directory.Static{"00126380": "삼성전자"}, false, nil)

	run, _, err := a.Begin(context.Background(), g, "", "126380", reportDate)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if run.EntityCode != "00126380" || run.EntityName != "삼성전자" {
		t.Errorf("expected supplied code, got %s %s", run.EntityCode, run.EntityName)
	}

	if _, _, err := a.Begin(context.Background(), g, "", "ABC", reportDate); err == nil {
		t.Error("expected RunMetadataError for non-numeric code")
	}
}

// Unknown entity: the raw code becomes the name and a diagnostic is raised
func TestBegin_UnknownEntity(t *testing.T) {
	g, _ := xbrl.Load(fixture.Standard())
	a := New(directory.Static{}, false, nil)

	run, diags, err := a.Begin(context.Background(), g, "", "", reportDate)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if run.EntityName != "00171636" {
		t.Errorf("expected raw code as name, got %s", run.EntityName)
	}
	if len(diags) != 1 || diags[0].Kind != model.DiagEntityFallback {
		t.Errorf("expected entity fallback diagnostic, got %+v", diags)
	}
}

func TestBegin_ResolverError(t *testing.T) {
	g, _ := xbrl.Load(fixture.Standard())
	run, diags, err := New(failingResolver{}, false, nil).Begin(context.Background(), g, "", "", reportDate)
	if err != nil {
		t.Fatalf("expected lookup failure to be non-fatal, got %v", err)
	}
	if run.EntityName != run.EntityCode || len(diags) != 1 {
		t.Errorf("expected fallback name and one diagnostic, got %s and %+v", run.EntityName, diags)
	}
}

func TestEntityCode_FileNameFallback(t *testing.T) {
	doc := fixture.NewInstance("00126380").
		InstantEntity("C2", "2025-06-30", "00164779").
		Instant("C1", "2025-06-30").
		Fact("ifrs-full:Assets", "C1", "1").
		Bytes()
	g, err := xbrl.Load(fixture.Package("report.xbrl", doc, nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	code, err := EntityCode(g, "/data/entity00126380_2025-06-30.zip", "")
	if err != nil || code != "00126380" {
		t.Errorf("expected code from file name, got %q (%v)", code, err)
	}

	_, err = EntityCode(g, "report.zip", "")
	var meta *model.RunMetadataError
	if !errors.As(err, &meta) {
		t.Errorf("expected RunMetadataError, got %v", err)
	}
}

func TestAssemble_EmptyStatement(t *testing.T) {
	run := Run{EntityCode: "00171636", EntityName: "x"}

	rows, diags, err := New(nil, false, nil).Assemble(run, model.BalanceSheet, nil)
	if err != nil {
		t.Fatalf("expected no error in lenient mode, got %v", err)
	}
	if len(rows) != 0 || len(diags) != 1 || diags[0].Kind != model.DiagEmptyStatement {
		t.Errorf("expected zero rows and an empty-statement diagnostic, got %d rows %+v", len(rows), diags)
	}

	_, _, err = New(nil, true, nil).Assemble(run, model.BalanceSheet, nil)
	var mismatch *model.SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("expected SchemaMismatchError in strict mode, got %v", err)
	}
}
