package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jejubot/types"
)

func TestRecord_AllCategoriesProduceDocument(t *testing.T) {
	row := map[string]any{
		"이름":           "바다식당",
		"주소":           "제주시 바닷가로 1",
		"전화번호":         "064-000-0000",
		"소개":           "신선한 회",
		"태그":           "해산물",
		"title":        "들불축제",
		"roadaddress":  "제주시 축제로 2",
		"alltag":       "축제,불꽃",
		"introduction": "매년 열리는 들불축제",
	}

	for _, category := range types.Categories {
		document, metadata := Record(category, row)
		assert.NotEmpty(t, document, "category %s", category)
		assert.Equal(t, category, metadata["category"])
		assert.Contains(t, document, "카테고리: "+category)
	}
}

func TestRecord_FoodTemplate(t *testing.T) {
	document, metadata := Record(types.CategoryFood, map[string]any{
		"이름": "바다식당",
		"주소": "제주시 바닷가로 1",
		"태그": "해산물",
		"소개": "신선한 회",
	})

	require.Equal(t, "카테고리: 음식 이름: 바다식당 주소: 제주시 바닷가로 1 소개: 신선한 회 태그: 해산물", document)
	assert.Equal(t, "음식", metadata["category"])
	assert.Equal(t, "바다식당", metadata["이름"])
}

func TestRecord_EventUsesOwnFieldNames(t *testing.T) {
	document, metadata := Record(types.CategoryEvent, map[string]any{
		"title":        "들불축제",
		"roadaddress":  "제주시 축제로 2",
		"alltag":       "축제",
		"introduction": "매년 열리는 들불축제",
	})

	assert.Contains(t, document, "이름: 들불축제")
	assert.Contains(t, document, "주소: 제주시 축제로 2")
	assert.Contains(t, document, "태그: 축제")
	assert.Contains(t, document, "소개: 매년 열리는 들불축제")
	assert.Equal(t, "행사", metadata["category"])
}

func TestRecord_MissingFieldsRenderEmptyNotOmitted(t *testing.T) {
	document, _ := Record(types.CategoryHotel, map[string]any{
		"이름": "한라호텔",
	})

	// Labels stay in place even when the value is empty.
	assert.Contains(t, document, "주소: ")
	assert.Contains(t, document, "전화번호: ")
	assert.Contains(t, document, "태그: ")
	assert.NotEmpty(t, document)
}

func TestRecord_NullCoercedToEmptyString(t *testing.T) {
	_, metadata := Record(types.CategoryFood, map[string]any{
		"이름":   "바다식당",
		"전화번호": nil,
	})

	phone, ok := metadata["전화번호"]
	require.True(t, ok, "null field must stay in metadata")
	assert.Equal(t, "", phone)
}

func TestRecord_NonStringValuesStringified(t *testing.T) {
	_, metadata := Record(types.CategoryTour, map[string]any{
		"이름":  "성산일출봉",
		"입장료": 5000,
	})

	assert.Equal(t, "5000", metadata["입장료"])
}

func TestRecord_UnknownCategorySentinel(t *testing.T) {
	document, metadata := Record("쇼핑", map[string]any{"이름": "어딘가"})

	assert.Equal(t, UnknownCategoryDocument, document)
	assert.Equal(t, "쇼핑", metadata["category"])
}
