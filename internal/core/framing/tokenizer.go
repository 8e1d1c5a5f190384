package framing

import (
	"strconv"
	"strings"

	"github.com/custodia-labs/serplot/internal/core/domain"
)

// Separator splits fields within a record.
const Separator = ","

// Tokenize splits a record into its integer fields.
//
// Tokens are trimmed and empty tokens are dropped, so stray separators never
// produce phantom zero values. A blank record yields no values and no error.
// A token that is not a base-10 integer fails the whole record with a
// *domain.ParseError.
func Tokenize(record string) ([]int64, error) {
	if strings.TrimSpace(record) == "" {
		return nil, nil
	}

	tokens := strings.Split(record, Separator)
	values := make([]int64, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, &domain.ParseError{Token: tok}
		}
		values = append(values, v)
	}
	return values, nil
}
