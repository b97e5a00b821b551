package corpus

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/analysis"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/evaluation"
	apperrors "github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/errors"
)

// Format parses the files of one collection markup.
type Format interface {
	Documents(content string) []string
	Queries(content string) []string
	Judgments(content string) (evaluation.Judgments, error)
	Stopwords(content string) analysis.Stopwords
}

// Formats lists the supported collection markups by name.
var Formats = map[string]Format{
	"cacm": cacmFormat{},
	"cran": cranFormat{},
	"med":  medFormat{},
	"npl":  nplFormat{},
	"time": timeFormat{},
}

var (
	smartRecord = regexp.MustCompile(`\.I \d+`)
	slashRecord = regexp.MustCompile(`\s*/\s*`)
	leadingNum  = regexp.MustCompile(`^\d+\s*`)
	timeText    = regexp.MustCompile(`\*TEXT \d+`)
	timePage    = regexp.MustCompile(`PAGE \d+\n\n([\s\S]+)`)
	timeFind    = regexp.MustCompile(`\*FIND\s+\d+\n\n`)

	cacmTitle = regexp.MustCompile(`\.T\s+([\s\S]+?)\.B`)
	cacmBody  = regexp.MustCompile(`\.B\s+([\s\S]+?)(\.A|\.N|\.X|$)`)
	cacmQuery = regexp.MustCompile(`\.W\s+([\s\S]+?)(\.N|$)`)

	cranTitle    = regexp.MustCompile(`\.T\s+([\s\S]+?)\.(A|B|W|N|X)`)
	cranBody     = regexp.MustCompile(`\.B\s+([\s\S]+?)\.(T|A|W|N|X)`)
	cranAbstract = regexp.MustCompile(`\.W\s+([\s\S]+?)\.(T|A|B|N|X|$)`)
	restOfW      = regexp.MustCompile(`\.W\s+([\s\S]+)`)
)

// smartRecords splits SMART ".I n" markup into record bodies, dropping the
// preamble before the first marker. Trailing whitespace is trimmed so that
// end-of-record anchors match the last line.
func smartRecords(content string) []string {
	parts := smartRecord.Split(content, -1)
	if len(parts) <= 1 {
		return nil
	}
	records := parts[1:]
	for i, r := range records {
		records[i] = strings.TrimRightFunc(r, unicode.IsSpace)
	}
	return records
}

func group(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// slashRecords splits "/"-terminated records, skipping empty ones.
func slashRecords(content string) []string {
	var out []string
	for _, r := range slashRecord.Split(content, -1) {
		r = strings.TrimSpace(r)
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}

func atoi(field string, line int) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, apperrors.Newf(apperrors.ErrMalformedCorpus, "line %d: %q is not an integer", line, field)
	}
	return n, nil
}

// columnJudgments parses one "query ... document ..." pair per line, taking
// the query id and document id from the given columns.
func columnJudgments(content string, queryCol, docCol int) (evaluation.Judgments, error) {
	j := evaluation.Judgments{}
	for i, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) <= max(queryCol, docCol) {
			return nil, apperrors.Newf(apperrors.ErrMalformedCorpus, "line %d: expected at least %d fields, got %d", i+1, max(queryCol, docCol)+1, len(fields))
		}
		q, err := atoi(fields[queryCol], i+1)
		if err != nil {
			return nil, err
		}
		d, err := atoi(fields[docCol], i+1)
		if err != nil {
			return nil, err
		}
		j.Add(q, d)
	}
	return j, nil
}

func whitespaceStopwords(content string) analysis.Stopwords {
	return analysis.NewStopwords(strings.Fields(content)...)
}

// cacmFormat: SMART markup, document text is title (.T up to .B) plus the
// .B section; queries are the .W section.
type cacmFormat struct{}

func (cacmFormat) Documents(content string) []string {
	records := smartRecords(content)
	docs := make([]string, 0, len(records))
	for _, r := range records {
		text := group(cacmTitle, r) + " " + group(cacmBody, r)
		docs = append(docs, strings.TrimSpace(text))
	}
	return docs
}

func (cacmFormat) Queries(content string) []string {
	records := smartRecords(content)
	queries := make([]string, 0, len(records))
	for _, r := range records {
		queries = append(queries, strings.TrimSpace(group(cacmQuery, r)))
	}
	return queries
}

func (cacmFormat) Judgments(content string) (evaluation.Judgments, error) {
	return columnJudgments(content, 0, 1)
}

func (cacmFormat) Stopwords(content string) analysis.Stopwords {
	return whitespaceStopwords(content)
}

// cranFormat: SMART markup, document text is title, bibliography and
// abstract; queries without a .W section are skipped.
type cranFormat struct{}

func (cranFormat) Documents(content string) []string {
	records := smartRecords(content)
	docs := make([]string, 0, len(records))
	for _, r := range records {
		text := group(cranTitle, r) + " " + group(cranBody, r) + " " + group(cranAbstract, r)
		docs = append(docs, strings.TrimSpace(strings.ReplaceAll(text, "\n", " ")))
	}
	return docs
}

func (cranFormat) Queries(content string) []string {
	records := smartRecords(content)
	queries := make([]string, 0, len(records))
	for _, r := range records {
		m := restOfW.FindStringSubmatch(r)
		if m == nil {
			continue
		}
		queries = append(queries, strings.TrimSpace(strings.ReplaceAll(m[1], "\n", " ")))
	}
	return queries
}

func (cranFormat) Judgments(content string) (evaluation.Judgments, error) {
	return columnJudgments(content, 0, 1)
}

func (cranFormat) Stopwords(content string) analysis.Stopwords {
	return whitespaceStopwords(content)
}

// medFormat: SMART markup with only .I and .W sections. Judgment lines are
// "query 0 document relevance".
type medFormat struct{}

func (medFormat) Documents(content string) []string {
	return medRecords(content)
}

func (medFormat) Queries(content string) []string {
	return medRecords(content)
}

func medRecords(content string) []string {
	records := smartRecords(content)
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, strings.TrimSpace(group(restOfW, r)))
	}
	return out
}

func (medFormat) Judgments(content string) (evaluation.Judgments, error) {
	return columnJudgments(content, 0, 2)
}

func (medFormat) Stopwords(content string) analysis.Stopwords {
	return whitespaceStopwords(content)
}

// nplFormat: "/"-terminated records throughout. A judgment record is the
// query number followed by its relevant document numbers; a stop-word
// record is a line number followed by the word.
type nplFormat struct{}

func (nplFormat) Documents(content string) []string {
	return slashRecords(content)
}

func (nplFormat) Queries(content string) []string {
	return slashRecords(content)
}

func (nplFormat) Judgments(content string) (evaluation.Judgments, error) {
	j := evaluation.Judgments{}
	for i, record := range slashRecords(content) {
		fields := strings.Fields(record)
		q, err := atoi(fields[0], i+1)
		if err != nil {
			return nil, err
		}
		j[q] = make(map[int]struct{}, len(fields)-1)
		for _, f := range fields[1:] {
			d, err := atoi(f, i+1)
			if err != nil {
				return nil, err
			}
			j.Add(q, d)
		}
	}
	return j, nil
}

func (nplFormat) Stopwords(content string) analysis.Stopwords {
	records := slashRecords(content)
	words := make([]string, 0, len(records))
	for _, r := range records {
		words = append(words, leadingNum.ReplaceAllString(r, ""))
	}
	return analysis.NewStopwords(words...)
}

// timeFormat: "*TEXT n" documents whose body follows a "PAGE n" line,
// "*FIND n" queries, judgment lines "query doc doc ...", one stop-word per
// line.
type timeFormat struct{}

func (timeFormat) Documents(content string) []string {
	parts := timeText.Split(content, -1)
	if len(parts) <= 1 {
		return nil
	}
	docs := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		docs = append(docs, strings.TrimSpace(group(timePage, p)))
	}
	return docs
}

func (timeFormat) Queries(content string) []string {
	parts := timeFind.Split(content, -1)
	if len(parts) <= 1 {
		return nil
	}
	queries := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		queries = append(queries, strings.TrimSpace(p))
	}
	return queries
}

func (timeFormat) Judgments(content string) (evaluation.Judgments, error) {
	j := evaluation.Judgments{}
	for i, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		q, err := atoi(fields[0], i+1)
		if err != nil {
			return nil, err
		}
		for _, f := range fields[1:] {
			d, err := atoi(f, i+1)
			if err != nil {
				return nil, err
			}
			j.Add(q, d)
		}
	}
	return j, nil
}

func (timeFormat) Stopwords(content string) analysis.Stopwords {
	return analysis.NewStopwords(strings.Split(content, "\n")...)
}
