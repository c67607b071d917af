package trigger

import (
	"fmt"
	"strings"

	"daymate/internal/models"
)

// Fixed start messages for categories that never need AI content
var startMessages = map[Category]string{
	CategoryMeal:     "맛있게 드세요! 천천히 꼭꼭 씹어 드시는 것 잊지 마세요 🍚",
	CategoryRest:     "푹 쉬는 시간이에요. 잠시 화면에서 눈을 떼고 재충전하세요 😌",
	CategoryLeisure:  "즐거운 여가 시간 되세요! 오늘 하루 고생한 나에게 주는 선물이에요 🎉",
	CategoryExercise: "운동 시작할 시간이에요! 가벼운 스트레칭부터 천천히 몸을 풀어주세요 💪",
	CategoryGeneric:  "일정을 시작할 시간이에요. 오늘도 화이팅입니다! 😊",
}

// daySummaryMessage builds the end-of-day recap from completion counts
func daySummaryMessage(total, completed, skipped int) string {
	var closing string
	switch {
	case total > 0 && completed == total:
		closing = "모든 일정을 완료했어요. 정말 멋진 하루였어요! 🎉"
	case completed > total/2:
		closing = "절반 이상 해냈어요. 오늘도 수고 많으셨어요 👏"
	default:
		closing = "완료하지 못한 일정은 내일의 나에게 맡겨요. 푹 쉬세요 🌙"
	}
	return fmt.Sprintf("오늘 하루 정리! 일정 %d개 중 %d개 완료, %d개 건너뛰었어요. %s",
		total, completed, skipped, closing)
}

// trendMessage builds the trend-briefing reminder from the unread list
func trendMessage(items []models.TrendItem) string {
	titles := make([]string, 0, 3)
	for i, item := range items {
		if i == 3 {
			break
		}
		titles = append(titles, item.Title)
	}
	head := strings.Join(titles, ", ")
	if len(items) > len(titles) {
		return fmt.Sprintf("📈 읽지 않은 트렌드 브리핑이 %d건 있어요: %s 외. 잠깐 확인해 보실래요?", len(items), head)
	}
	return fmt.Sprintf("📈 읽지 않은 트렌드 브리핑이 %d건 있어요: %s. 잠깐 확인해 보실래요?", len(items), head)
}

// goalReminderMessage derives the reminder text from the progress bucket
func goalReminderMessage(goal models.Goal) string {
	switch {
	case goal.Progress <= 0:
		return fmt.Sprintf("'%s' 목표, 아직 시작 전이에요. 오늘 작게라도 첫걸음을 떼어볼까요?", goal.Title)
	case goal.Progress < 30:
		return fmt.Sprintf("'%s' 목표 진행률 %d%%. 시작이 반이에요, 꾸준히 가봅시다!", goal.Title, goal.Progress)
	case goal.Progress < 70:
		return fmt.Sprintf("'%s' 목표 진행률 %d%%. 절반 고지를 향해 잘 가고 있어요!", goal.Title, goal.Progress)
	default:
		return fmt.Sprintf("'%s' 목표 진행률 %d%%. 거의 다 왔어요, 마무리까지 화이팅!", goal.Title, goal.Progress)
	}
}
