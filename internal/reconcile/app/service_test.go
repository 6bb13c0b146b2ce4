package app

import (
	"context"
	"strings"
	"testing"

	noopmetric "go.opentelemetry.io/otel/metric/noop"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/nathantilsley/release-watch/internal/platform/logger"
	linediff "github.com/nathantilsley/release-watch/internal/reconcile/adapters/line_diff"
	yamldoc "github.com/nathantilsley/release-watch/internal/reconcile/adapters/yaml_doc"
	"github.com/nathantilsley/release-watch/internal/reconcile/domain"
)

func newService(t *testing.T) *ReconcileService {
	t.Helper()
	return NewReconcileService(
		yamldoc.New(),
		linediff.New(),
		logger.New("error"),
		noopmetric.NewMeterProvider().Meter("test"),
		nooptrace.NewTracerProvider().Tracer("test"),
	)
}

func reconcile(t *testing.T, values string, images map[string]domain.TagTarget) domain.ReconcileResult {
	t.Helper()
	res, err := newService(t).Reconcile(context.Background(), values, images)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	return res
}

func TestReconcilePrefersNestedImageBlock(t *testing.T) {
	values := `api:
  image:
    repository: registry.example.com/api
    tag: "1.0"
  tag: decoy
`
	res := reconcile(t, values, map[string]domain.TagTarget{
		"api": {Repository: "registry.example.com/api", Tag: "1.1"},
	})

	if len(res.Changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(res.Changes))
	}
	c := res.Changes[0]
	if c.Path != "api.image.tag" {
		t.Errorf("path = %q, want %q", c.Path, "api.image.tag")
	}
	if c.Status != domain.StatusUpdated {
		t.Errorf("status = %v, want updated", c.Status)
	}
	if c.OldTag == nil || *c.OldTag != "1.0" {
		t.Errorf("oldTag = %v, want 1.0", c.OldTag)
	}
	if !strings.Contains(res.UpdatedText, `tag: "1.1"`) {
		t.Errorf("updated text missing new tag:\n%s", res.UpdatedText)
	}
	if strings.Contains(res.UpdatedText, "tag: decoy\n") == false {
		t.Errorf("flat decoy tag was touched:\n%s", res.UpdatedText)
	}
}

func TestReconcileFallsBackToDirectTag(t *testing.T) {
	values := "worker:\n  tag: 2.0\n"
	res := reconcile(t, values, map[string]domain.TagTarget{
		"worker": {Tag: "2.1"},
	})

	if len(res.Changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(res.Changes))
	}
	c := res.Changes[0]
	if c.Path != "worker.tag" {
		t.Errorf("path = %q, want %q", c.Path, "worker.tag")
	}
	if c.Status != domain.StatusUpdated {
		t.Errorf("status = %v, want updated", c.Status)
	}
	if res.UpdatedText != "worker:\n  tag: 2.1\n" {
		t.Errorf("updated text = %q", res.UpdatedText)
	}
}

func TestReconcileUnchangedWhenTagMatches(t *testing.T) {
	values := "api:\n  image:\n    tag: 1.0\n"
	res := reconcile(t, values, map[string]domain.TagTarget{
		"api": {Tag: "1.0"},
	})

	if len(res.Changes) != 1 || res.Changes[0].Status != domain.StatusUnchanged {
		t.Fatalf("changes = %+v, want one unchanged record", res.Changes)
	}
	if res.UpdatedText != values {
		t.Errorf("unchanged reconciliation altered the text:\n got: %q\nwant: %q", res.UpdatedText, values)
	}
	if res.Diff != "" {
		t.Errorf("diff = %q, want empty for unchanged text", res.Diff)
	}
}

func TestReconcileMissingEntryRecordsFirstCandidate(t *testing.T) {
	values := "api:\n  image:\n    tag: 1.0\n"
	res := reconcile(t, values, map[string]domain.TagTarget{
		"ghost": {Repository: "registry.example.com/ghost", Tag: "2.0"},
	})

	if len(res.Changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(res.Changes))
	}
	c := res.Changes[0]
	if c.Status != domain.StatusMissing {
		t.Errorf("status = %v, want missing", c.Status)
	}
	if c.Path != "ghost.image.tag" {
		t.Errorf("path = %q, want %q", c.Path, "ghost.image.tag")
	}
	if c.OldTag != nil {
		t.Errorf("oldTag = %v, want nil", *c.OldTag)
	}
	if c.NewTag != "2.0" {
		t.Errorf("newTag = %q, want %q", c.NewTag, "2.0")
	}
	// Nothing matched, so the text must come back untouched.
	if res.UpdatedText != values {
		t.Errorf("text altered with no matching keys:\n got: %q\nwant: %q", res.UpdatedText, values)
	}
}

func TestReconcileSequenceIndexSegment(t *testing.T) {
	values := `services:
  - image:
      tag: a
  - image:
      tag: b
`
	res := reconcile(t, values, map[string]domain.TagTarget{
		"services.1": {Tag: "c"},
	})

	if len(res.Changes) != 1 || res.Changes[0].Status != domain.StatusUpdated {
		t.Fatalf("changes = %+v, want one updated record", res.Changes)
	}
	if res.Changes[0].Path != "services.1.image.tag" {
		t.Errorf("path = %q, want %q", res.Changes[0].Path, "services.1.image.tag")
	}
	want := strings.Replace(values, "tag: b", "tag: c", 1)
	if res.UpdatedText != want {
		t.Errorf("updated text = %q, want %q", res.UpdatedText, want)
	}
}

func TestReconcileSkipsEntriesWithoutTag(t *testing.T) {
	res := reconcile(t, "api:\n  image:\n    tag: 1.0\n", map[string]domain.TagTarget{
		"api": {Repository: "registry.example.com/api"},
	})
	if len(res.Changes) != 0 {
		t.Errorf("changes = %+v, want none for empty tag", res.Changes)
	}
}

func TestReconcileLedgerIsSortedByKey(t *testing.T) {
	values := "a:\n  tag: 1\nb:\n  tag: 1\nc:\n  tag: 1\n"
	res := reconcile(t, values, map[string]domain.TagTarget{
		"c": {Tag: "2"},
		"a": {Tag: "2"},
		"b": {Tag: "2"},
	})

	got := make([]string, len(res.Changes))
	for i, c := range res.Changes {
		got[i] = c.Key
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ledger order = %v, want %v", got, want)
		}
	}
}

func TestReconcilePreservesUntouchedFormatting(t *testing.T) {
	values := `# release values
api:
  image:
    repository: registry.example.com/api   # comment with  spacing
    tag: "1.0"

worker:
  replicas: 3
  image: {tag: old}
`
	res := reconcile(t, values, map[string]domain.TagTarget{
		"api": {Tag: "1.1"},
	})

	want := strings.Replace(values, `"1.0"`, `"1.1"`, 1)
	if res.UpdatedText != want {
		t.Errorf("formatting not preserved:\n got: %q\nwant: %q", res.UpdatedText, want)
	}
	if !strings.Contains(res.Diff, `-    tag: "1.0"`) || !strings.Contains(res.Diff, `+    tag: "1.1"`) {
		t.Errorf("diff missing expected hunk:\n%s", res.Diff)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	values := "api:\n  image:\n    tag: 1.0\nworker:\n  tag: 2.0\n"
	images := map[string]domain.TagTarget{
		"api":    {Tag: "5.0"},
		"worker": {Tag: "6.0"},
	}

	first := reconcile(t, values, images)
	second := reconcile(t, first.UpdatedText, images)

	if second.UpdatedText != first.UpdatedText {
		t.Errorf("second run changed the text:\n got: %q\nwant: %q", second.UpdatedText, first.UpdatedText)
	}
	u, n, m := domain.CountByStatus(second.Changes)
	if u != 0 || n != 2 || m != 0 {
		t.Errorf("second run counts = (%d, %d, %d), want (0, 2, 0)", u, n, m)
	}
	if second.Diff != "" {
		t.Errorf("second run diff = %q, want empty", second.Diff)
	}
}

func TestReconcileTrimsTagWhitespaceBeforeComparing(t *testing.T) {
	res := reconcile(t, "api:\n  image:\n    tag: 1.0\n", map[string]domain.TagTarget{
		"api": {Tag: "  1.0  "},
	})
	if res.Changes[0].Status != domain.StatusUnchanged {
		t.Errorf("status = %v, want unchanged", res.Changes[0].Status)
	}
}

func TestReconcileMalformedDocumentFailsWhole(t *testing.T) {
	_, err := newService(t).Reconcile(context.Background(),
		"api: first: second\n",
		map[string]domain.TagTarget{"api": {Tag: "1.0"}},
	)
	if err == nil {
		t.Fatal("expected error for malformed document")
	}
	if !domain.IsParseError(err) {
		t.Errorf("error %T does not wrap a ParseError", err)
	}
}
