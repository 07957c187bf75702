package reconcile

import (
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fiscalware/nfeconcile/internal/authority"
	"github.com/fiscalware/nfeconcile/internal/ledger"
)

func testKey(prefix string) string {
	return prefix + strings.Repeat("0", 44-len(prefix))
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRun_Matched(t *testing.T) {
	key := testKey("11")
	results := Run(
		[]ledger.Record{{Key: key, Number: "100", Value: money("1234.56")}},
		[]authority.Record{{Key: key, Number: "100", Status: "Autorizada"}},
		DefaultOptions(),
	)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.Status != StatusMatched {
		t.Fatalf("status = %s, want Matched", r.Status)
	}
	if !r.Value.Equal(money("1234.56")) {
		t.Fatalf("value = %s, want 1234.56", r.Value)
	}
	if r.Authority == nil || r.Ledger == nil {
		t.Fatal("expected back-references to both source records")
	}
}

func TestRun_CancelledOverridesMatch(t *testing.T) {
	key := testKey("22")
	for _, status := range []string{"Cancelada", "CANCELADA", "NFe cancelada pelo emitente"} {
		results := Run(
			[]ledger.Record{{Key: key, Value: money("10")}},
			[]authority.Record{{Key: key, Status: status}},
			DefaultOptions(),
		)
		if results[0].Status != StatusCancelled {
			t.Fatalf("status for %q = %s, want Cancelled", status, results[0].Status)
		}
	}
}

func TestRun_NotBooked(t *testing.T) {
	results := Run(
		nil,
		[]authority.Record{{Key: testKey("33"), Status: "Autorizada"}},
		DefaultOptions(),
	)
	r := results[0]
	if r.Status != StatusNotBooked {
		t.Fatalf("status = %s, want NotBookedInLedger", r.Status)
	}
	if !r.Value.IsZero() {
		t.Fatalf("value = %s, want 0", r.Value)
	}
	if r.Ledger != nil {
		t.Fatal("unexpected ledger back-reference")
	}
}

func TestRun_LedgerOnlyTail(t *testing.T) {
	shared, only := testKey("44"), testKey("55")
	results := Run(
		[]ledger.Record{
			{Key: shared, Value: money("1")},
			{Key: only, Number: "77", Date: "02/2024", Value: money("9.90")},
		},
		[]authority.Record{{Key: shared, Status: "Autorizada"}},
		DefaultOptions(),
	)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	tail := results[1]
	if tail.Status != StatusNotFoundAtAuthority {
		t.Fatalf("status = %s, want NotFoundAtAuthority", tail.Status)
	}
	if tail.Key != only || tail.Number != "77" || !tail.Value.Equal(money("9.90")) {
		t.Fatalf("tail result carries wrong ledger data: %+v", tail)
	}
	if tail.Authority != nil {
		t.Fatal("ledger-only result must not reference an authority record")
	}
	if tail.StateText == "" {
		t.Fatal("ledger-only result must carry the fixed absence text")
	}
}

func TestRun_AuthorityOnlyMode(t *testing.T) {
	results := Run(
		[]ledger.Record{{Key: testKey("66")}},
		nil,
		Options{IncludeLedgerOnly: false},
	)
	if len(results) != 0 {
		t.Fatalf("authority-only mode emitted %d results, want 0", len(results))
	}
}

func TestRun_CancelledStillConsumesLedgerRecord(t *testing.T) {
	key := testKey("77")
	results := Run(
		[]ledger.Record{{Key: key, Value: money("5")}},
		[]authority.Record{{Key: key, Status: "Cancelada"}},
		DefaultOptions(),
	)
	// The ledger record was looked up, so no NotFoundAtAuthority tail.
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Status != StatusCancelled {
		t.Fatalf("status = %s, want Cancelled", results[0].Status)
	}
	if !results[0].Value.Equal(money("5")) {
		t.Fatalf("cancelled result should still carry the booked value, got %s", results[0].Value)
	}
}

func TestRun_DuplicateLedgerKeysLastWins(t *testing.T) {
	key := testKey("88")
	results := Run(
		[]ledger.Record{
			{Key: key, Number: "early", Value: money("1")},
			{Key: key, Number: "late", Value: money("2")},
		},
		[]authority.Record{{Key: key, Status: "Autorizada"}},
		DefaultOptions(),
	)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if !results[0].Value.Equal(money("2")) || results[0].Ledger.Number != "late" {
		t.Fatalf("expected last ledger record to win the join, got %+v", results[0])
	}
}

func TestRun_Deterministic(t *testing.T) {
	ledgerRecs := []ledger.Record{
		{Key: testKey("1"), Value: money("1")},
		{Key: testKey("2"), Value: money("2")},
	}
	authorityRecs := []authority.Record{
		{Key: testKey("2"), Status: "Autorizada"},
		{Key: testKey("3"), Status: "Cancelada"},
	}
	a := Run(ledgerRecs, authorityRecs, DefaultOptions())
	b := Run(ledgerRecs, authorityRecs, DefaultOptions())
	if len(a) != len(b) {
		t.Fatalf("result lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Key != b[i].Key || a[i].Status != b[i].Status || !a[i].Value.Equal(b[i].Value) {
			t.Fatalf("result %d differs between runs", i)
		}
	}
	keys := make([]string, len(a))
	for i, r := range a {
		keys[i] = r.Key
	}
	if !reflect.DeepEqual(keys[:len(authorityRecs)], []string{authorityRecs[0].Key, authorityRecs[1].Key}) {
		t.Fatalf("authority order not preserved: %v", keys)
	}
}
