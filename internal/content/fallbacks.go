package content

import "daymate/internal/trigger"

// fallbackGeneric keys the catch-all fallback string
const fallbackGeneric = "generic"

// defaultFallbacks returns the fixed per-family fallback strings used
// whenever a content call fails or returns a malformed payload
func defaultFallbacks() map[string]string {
	return map[string]string{
		trigger.FamilyPreReminder: "곧 일정이 시작됩니다. 준비하실 것이 있나요?",
		trigger.FamilyStart:       "일정을 시작할 시간이에요. 집중해서 좋은 결과 만들어봐요!",
		trigger.FamilyCheckIn:     "잘 진행되고 있나요? 잠깐 중간 점검 한번 해보세요.",
		trigger.FamilyFeedback:    "일정 마무리 수고하셨어요. 잠시 숨 고르고 다음으로 넘어가요.",
		trigger.FamilyNews:        "오늘의 소식을 불러오지 못했어요. 잠시 후 다시 확인해 주세요.",
		trigger.FamilyGapFiller:   "다음 일정까지 여유가 있어요. 가볍게 쉬면서 준비해 보세요.",
		trigger.FamilyIdle:        "지금은 자유 시간이에요. 잠깐 머리를 식혀보는 건 어떠세요?",
		fallbackGeneric:           "오늘도 화이팅입니다! 😊",
	}
}
