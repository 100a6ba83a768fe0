// Package normalize turns one source record into the document text and
// flat metadata stored in the vector index.
package normalize

import (
	"fmt"
	"strings"

	"jejubot/types"
)

// UnknownCategoryDocument is the sentinel document text for records whose
// category is not one of the four known labels.
const UnknownCategoryDocument = "카테고리 정보 없음"

// Record builds the embeddable document and the metadata map for one source
// row. Missing fields render as empty strings, never omitted, so the field
// order inside the document stays stable across records.
func Record(category string, row map[string]any) (string, map[string]string) {
	meta := make(map[string]string, len(row)+1)
	for key, value := range row {
		meta[key] = stringify(value)
	}
	meta["category"] = category

	return document(category, meta), meta
}

func document(category string, meta map[string]string) string {
	switch category {
	case types.CategoryFood:
		return fields(category,
			"이름", meta["이름"],
			"주소", meta["주소"],
			"소개", meta["소개"],
			"태그", meta["태그"],
		)
	case types.CategoryHotel, types.CategoryTour:
		return fields(category,
			"이름", meta["이름"],
			"주소", meta["주소"],
			"전화번호", meta["전화번호"],
			"소개", meta["소개"],
			"태그", meta["태그"],
		)
	case types.CategoryEvent:
		// Event sources use a different field-name set.
		return fields(category,
			"이름", meta["title"],
			"주소", meta["roadaddress"],
			"태그", meta["alltag"],
			"소개", meta["introduction"],
		)
	default:
		return UnknownCategoryDocument
	}
}

// fields renders "카테고리: <category> <label>: <value> ..." from
// label/value pairs.
func fields(category string, pairs ...string) string {
	var sb strings.Builder
	sb.WriteString("카테고리: ")
	sb.WriteString(category)
	for i := 0; i+1 < len(pairs); i += 2 {
		sb.WriteString(" ")
		sb.WriteString(pairs[i])
		sb.WriteString(": ")
		sb.WriteString(pairs[i+1])
	}
	return sb.String()
}

// stringify coerces JSON values to strings; null becomes the empty string.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
