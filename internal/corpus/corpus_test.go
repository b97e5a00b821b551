package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/analysis"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/evaluation"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/errors"
)

const cacmDocs = `.I 1
.T
Preliminary Report-International Algebraic Language
.B
CACM December, 1958
.A
Perlis, A. J.
.N
CA581203 JB March 22, 1978
.I 2
.T
Extraction of Roots by Repeated Subtractions
.W
Abstract text here.
.B
CACM December, 1958
.X
1	5	2
`

const cacmQueries = `.I 1
.W
 What articles exist which deal with TSS (Time Sharing System)?
.N
 1. Richard Alexander, Comp Serv, Langmuir Lab (TSS)
.I 2
.W
 Interested in articles on robotics.
`

func TestCACMFormat(t *testing.T) {
	f := Formats["cacm"]
	docs := f.Documents(cacmDocs)
	want := []string{
		"Preliminary Report-International Algebraic Language\n CACM December, 1958",
		"Extraction of Roots by Repeated Subtractions\n.W\nAbstract text here.\n CACM December, 1958",
	}
	if !reflect.DeepEqual(docs, want) {
		t.Errorf("Documents() = %#v, want %#v", docs, want)
	}
	queries := f.Queries(cacmQueries)
	if len(queries) != 2 {
		t.Fatalf("len(Queries()) = %d, want 2", len(queries))
	}
	if queries[0] != "What articles exist which deal with TSS (Time Sharing System)?" {
		t.Errorf("Queries()[0] = %q", queries[0])
	}
	if queries[1] != "Interested in articles on robotics." {
		t.Errorf("Queries()[1] = %q", queries[1])
	}
	j, err := f.Judgments("01 1410  0 0\n01 1572  0 0\n\n02 1 0 0\n")
	if err != nil {
		t.Fatal(err)
	}
	if !j.IsRelevant(1, 1410) || !j.IsRelevant(1, 1572) || !j.IsRelevant(2, 1) {
		t.Errorf("Judgments() = %v", j)
	}
	sw := f.Stopwords("a\nabout THE\n")
	if !sw.Contains("the") || !sw.Contains("about") || len(sw) != 3 {
		t.Errorf("Stopwords() = %v", sw)
	}
}

const cranDocs = `.I 1
.T
experimental investigation of the aerodynamics of a
wing in a slipstream .
.A
brenckman,m.
.B
j. ae. scs. 25, 1958, 324.
.W
experimental investigation of the aerodynamics of a
wing in a slipstream .
.I 2
.T
simple shear flow past a flat plate .
.A
ting-yili
.B
department of aeronautical engineering .
.W
the flow past a plate .
`

func TestCRANFormat(t *testing.T) {
	f := Formats["cran"]
	docs := f.Documents(cranDocs)
	if len(docs) != 2 {
		t.Fatalf("len(Documents()) = %d, want 2", len(docs))
	}
	want := "simple shear flow past a flat plate .  department of aeronautical engineering .  the flow past a plate"
	if docs[1] != want {
		t.Errorf("Documents()[1] = %q, want %q", docs[1], want)
	}
	queries := f.Queries(".I 001\n.W\nwhat similarity laws\nmust be obeyed .\n.I 002\n.I 003\n.W\nflow .\n")
	if !reflect.DeepEqual(queries, []string{"what similarity laws must be obeyed .", "flow ."}) {
		t.Errorf("Queries() = %#v", queries)
	}
}

func TestMEDFormat(t *testing.T) {
	f := Formats["med"]
	docs := f.Documents(".I 1\n.W\ncorrelation between maternal and fetal\nplasma levels\n.I 2\n.W\nhepatitis\n")
	if !reflect.DeepEqual(docs, []string{"correlation between maternal and fetal\nplasma levels", "hepatitis"}) {
		t.Errorf("Documents() = %#v", docs)
	}
	j, err := f.Judgments("1 0 13 1\n1 0 14 1\n2 0 80 1\n")
	if err != nil {
		t.Fatal(err)
	}
	if !j.IsRelevant(1, 13) || !j.IsRelevant(1, 14) || !j.IsRelevant(2, 80) || j.IsRelevant(1, 0) {
		t.Errorf("Judgments() = %v", j)
	}
}

func TestNPLFormat(t *testing.T) {
	f := Formats["npl"]
	docs := f.Documents("1\ncompact memories have flexible capacities\n   /\n2\nan electronic analogue computer\n   /\n")
	if len(docs) != 2 || docs[1] != "2\nan electronic analogue computer" {
		t.Errorf("Documents() = %#v", docs)
	}
	j, err := f.Judgments("1\n 1239 1502\n   /\n2\n 1160\n   /\n")
	if err != nil {
		t.Fatal(err)
	}
	if !j.IsRelevant(1, 1239) || !j.IsRelevant(1, 1502) || !j.IsRelevant(2, 1160) {
		t.Errorf("Judgments() = %v", j)
	}
	if j.IsRelevant(1, 1) {
		t.Error("query number must not be read as a relevant document")
	}
	sw := f.Stopwords("1 A\n /\n2 ABOUT\n /\n")
	if !sw.Contains("a") || !sw.Contains("about") || len(sw) != 2 {
		t.Errorf("Stopwords() = %v", sw)
	}
}

const timeDocs = `*TEXT 017 01/04/63 PAGE 020

THE ALLIES AFTER NASSAU IN DECEMBER 1960 .

*TEXT 020 01/04/63 PAGE 021

THE ROAD TO JAIL IS PAVED .

*STOP
`

func TestTIMEFormat(t *testing.T) {
	f := Formats["time"]
	docs := f.Documents(timeDocs)
	want := []string{
		"THE ALLIES AFTER NASSAU IN DECEMBER 1960 .",
		"THE ROAD TO JAIL IS PAVED .\n\n*STOP",
	}
	if !reflect.DeepEqual(docs, want) {
		t.Errorf("Documents() = %#v, want %#v", docs, want)
	}
	queries := f.Queries("*FIND    1\n\nKENNEDY ADMINISTRATION PRESSURE\n\n*FIND    2\n\nBUDDHISTS\n")
	if !reflect.DeepEqual(queries, []string{"KENNEDY ADMINISTRATION PRESSURE", "BUDDHISTS"}) {
		t.Errorf("Queries() = %#v", queries)
	}
	j, err := f.Judgments("1  268 288 304\n\n2  326\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(j.Relevant(1)) != 3 || !j.IsRelevant(2, 326) {
		t.Errorf("Judgments() = %v", j)
	}
	sw := f.Stopwords("A\nABOUT\n\n")
	if !sw.Contains("a") || !sw.Contains("about") || len(sw) != 2 {
		t.Errorf("Stopwords() = %v", sw)
	}
}

func TestJudgmentsMalformed(t *testing.T) {
	for name, content := range map[string]string{
		"cacm": "01 x 0 0\n",
		"med":  "1 0\n",
		"npl":  "1\n 12 abc\n /\n",
		"time": "q 1 2\n",
	} {
		if _, err := Formats[name].Judgments(content); !errors.Is(err, apperrors.ErrMalformedCorpus) {
			t.Errorf("%s: error = %v, want ErrMalformedCorpus", name, err)
		}
	}
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestFileAdapterLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"docs":  ".I 1\r\n.W\r\nfirst doc\r\n.I 2\r\n.W\r\nsecond doc\r\n",
		"qry":   ".I 1\n.W\nfirst\n",
		"rel":   "1 0 1 1\n",
		"words": "the\n",
	})
	a, err := NewFileAdapter(config.CorpusConfig{
		Name: "tiny", Format: "med", DataDir: dir,
		Documents: "docs", Queries: "qry", Judgments: "rel", Stopwords: "words",
	})
	if err != nil {
		t.Fatal(err)
	}
	if a.Name() != "tiny" {
		t.Errorf("Name() = %q", a.Name())
	}
	c, err := a.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(c.Documents, []string{"first doc", "second doc"}) {
		t.Errorf("Documents = %#v", c.Documents)
	}
	if !c.Stopwords.Contains("the") {
		t.Error("stopwords not loaded")
	}
}

func TestFileAdapterLoadErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"docs":  ".I 1\n.W\nfirst doc\n",
		"qry":   ".I 1\n.W\nfirst\n",
		"rel":   "9 0 1 1\n",
		"bad":   "1 0 x 1\n",
		"empty": "",
	})
	base := config.CorpusConfig{Name: "tiny", Format: "med", DataDir: dir, Documents: "docs", Queries: "qry"}
	tests := []struct {
		name      string
		judgments string
		docs      string
	}{
		{"missing file", "nope", "docs"},
		{"malformed judgments", "bad", "docs"},
		{"no judged query in range", "rel", "docs"},
		{"empty judgments", "empty", "docs"},
		{"no documents", "rel", "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.Judgments = tt.judgments
			cfg.Documents = tt.docs
			a, err := NewFileAdapter(cfg)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := a.Load(); !errors.Is(err, apperrors.ErrCorpusLoad) {
				t.Errorf("Load() error = %v, want ErrCorpusLoad", err)
			}
		})
	}
	if _, err := NewFileAdapter(config.CorpusConfig{Name: "x", Format: "trec"}); !errors.Is(err, apperrors.ErrInvalidConfig) {
		t.Errorf("NewFileAdapter(trec) error = %v, want ErrInvalidConfig", err)
	}
}

func sampleCorpus() *Corpus {
	j := evaluation.Judgments{}
	j.Add(1, 2)
	return &Corpus{
		Name:      "sample",
		Documents: []string{"alpha beta", "gamma"},
		Queries:   []string{"gamma"},
		Judgments: j,
		Stopwords: analysis.NewStopwords("the"),
	}
}

func TestFingerprint(t *testing.T) {
	a, b := sampleCorpus(), sampleCorpus()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical corpora have different fingerprints")
	}
	b.Judgments.Add(1, 1)
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("judgment change did not change the fingerprint")
	}
	c := sampleCorpus()
	c.Documents = []string{"alpha", "beta gamma"}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("document boundaries must affect the fingerprint")
	}
}

func TestStaticAdapter(t *testing.T) {
	c, err := Static{Corpus: sampleCorpus()}.Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.OutOfRange() != 0 {
		t.Errorf("OutOfRange() = %d, want 0", c.OutOfRange())
	}
	bad := sampleCorpus()
	bad.Judgments = nil
	if _, err := (Static{Corpus: bad}).Load(); !errors.Is(err, apperrors.ErrCorpusLoad) {
		t.Errorf("Load() error = %v, want ErrCorpusLoad", err)
	}
}
