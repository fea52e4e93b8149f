package ingestion

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// confidenceRe pulls the first numeric token out of free-form confidence
// text such as "85% confidence - strong momentum".
var confidenceRe = regexp.MustCompile(`(\d+(?:\.\d+)?)%?`)

// mustPath parses a JSONPath selector at package init.
func mustPath(selector string) jp.Expr {
	x, err := jp.ParseString(selector)
	if err != nil {
		panic(err)
	}
	return x
}

// firstAt returns the first value the selector matches, or nil. Missing
// keys and wrong-shaped intermediate nodes both come back as no match.
func firstAt(doc any, path jp.Expr) any {
	if results := path.Get(doc); len(results) > 0 {
		return results[0]
	}
	return nil
}

// stringAt returns the string at the path; non-string values are treated
// as absent rather than stringified.
func stringAt(doc any, path jp.Expr) *string {
	if s, ok := firstAt(doc, path).(string); ok {
		return &s
	}
	return nil
}

// floatAt accepts JSON numbers and numeric strings such as "85.5".
func floatAt(doc any, path jp.Expr) *float64 {
	return toFloat(firstAt(doc, path))
}

// intAt accepts integers, floats (truncated toward zero), and base-10
// integer strings.
func intAt(doc any, path jp.Expr) *int64 {
	return toInt(firstAt(doc, path))
}

// boolAt accepts literal booleans only; numbers and strings like "true"
// stay absent.
func boolAt(doc any, path jp.Expr) *bool {
	if b, ok := firstAt(doc, path).(bool); ok {
		return &b
	}
	return nil
}

func toFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int64:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func toInt(v any) *int64 {
	switch n := v.(type) {
	case int64:
		return &n
	case int:
		i := int64(n)
		return &i
	case float64:
		i := int64(n)
		return &i
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return nil
		}
		return &i
	default:
		return nil
	}
}

// confidencePct extracts the numeric percentage from confidence text.
// Returns nil when the text is absent, empty, or holds no number.
func confidencePct(text *string) *float64 {
	if text == nil || *text == "" {
		return nil
	}
	m := confidenceRe.FindStringSubmatch(*text)
	if m == nil {
		return nil
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &pct
}
