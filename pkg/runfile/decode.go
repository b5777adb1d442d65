package runfile

import (
	"strconv"
	"strings"
)

func parseFloat(tok, field string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, malformed("%s: %q is not a number", field, tok)
	}

	return v, nil
}

func parseFloats(toks []string, field string) ([]float64, error) {
	out := make([]float64, len(toks))
	for i, tok := range toks {
		v, err := parseFloat(tok, field)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

func parseCount(line, field string) (int, error) {
	toks := strings.Fields(line)
	if len(toks) == 0 {
		return 0, malformed("%s: missing count", field)
	}

	n, err := strconv.Atoi(toks[0])
	if err != nil || n < 0 {
		return 0, malformed("%s: %q is not a count", field, toks[0])
	}

	return n, nil
}

// keyword strips the whitespace and leading '#' padding around a type keyword line.
func keyword(line string) string {
	return strings.TrimLeft(strings.TrimSpace(line), "#")
}

// fields splits line and checks it holds exactly want tokens.
func fields(line string, want int, what string) ([]string, error) {
	toks := strings.Fields(line)
	if len(toks) != want {
		return nil, malformed("%s: expected %d tokens, found %d", what, want, len(toks))
	}

	return toks, nil
}
