package retrieval

import (
	"fmt"
	"strings"

	"jejubot/types"
)

// NoContext is returned for an empty retrieval list so the prompt never
// carries a blank context section.
const NoContext = "관련 정보를 찾을 수 없습니다."

const contextHeader = "=== 제주도 관련 정보 ===\n\n"

// FormatContext renders retrieved places into the deterministic text block
// injected into the model prompt.
func FormatContext(places []types.Place) string {
	if len(places) == 0 {
		return NoContext
	}

	var sb strings.Builder
	sb.WriteString(contextHeader)

	for i, place := range places {
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, place.Name, place.Category)
		fmt.Fprintf(&sb, "   📍 주소: %s\n", place.Address)
		if place.Phone != NoPhone {
			fmt.Fprintf(&sb, "   📞 전화번호: %s\n", place.Phone)
		}
		fmt.Fprintf(&sb, "   🏷 태그: %s\n", place.Tags)
		fmt.Fprintf(&sb, "   💬 설명: %s\n", place.Description)
		fmt.Fprintf(&sb, "   📊 관련도: %.3f\n\n", place.Distance)
	}
	return sb.String()
}
