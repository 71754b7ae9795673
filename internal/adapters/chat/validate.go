package chat

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
	"github.com/kirillkom/x-sentiment/internal/core/usecase"
)

const maxQueryRunes = 500

var (
	errQueryLength     = errors.New("query is empty or longer than 500 characters")
	errQueryNoKeywords = errors.New("query has neither keywords nor search operators")
)

var (
	operatorTokenPattern  = regexp.MustCompile(`(from:|since:|until:|lang:|#|@)\S+\s*`)
	filterOperatorPattern = regexp.MustCompile(`(from:|since:|until:|lang:)\S+`)
)

// ValidateQuery sanitizes a chat query. A query must carry a keyword or an operator.
func ValidateQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" || utf8.RuneCountInString(query) > maxQueryRunes {
		return "", domain.WrapError(domain.ErrValidation, "validate chat query", errQueryLength)
	}

	sanitized := usecase.SanitizeQuery(query)
	meaningful := strings.TrimSpace(operatorTokenPattern.ReplaceAllString(sanitized, ""))
	if meaningful == "" && !filterOperatorPattern.MatchString(sanitized) {
		return "", domain.WrapError(domain.ErrValidation, "validate chat query", errQueryNoKeywords)
	}
	return sanitized, nil
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, errQueryLength):
		return "Query terlalu panjang atau kosong. Maksimal 500 karakter."
	case errors.Is(err, errQueryNoKeywords):
		return "Query harus mengandung kata kunci pencarian atau operator Twitter."
	default:
		return err.Error()
	}
}
