package report

import (
	"strings"
	"testing"

	"infofix/backend/internal/dto"
)

func intPtr(v int) *int { return &v }

func sampleCard(name string, score float64, tier string) dto.ScorecardResponse {
	return dto.ScorecardResponse{
		Staff:  dto.StaffResponse{ID: strings.ToLower(name), Name: name},
		Window: dto.WindowResponse{Label: "2025-03", Start: "2025-03-01", End: "2025-03-31"},
		Score:  score,
		Tier: dto.TierResponse{
			Name:    tier,
			Label:   tier,
			Palette: dto.PaletteResponse{Background: "#DCFCE7", Foreground: "#15803D", Border: "#86EFAC"},
		},
		Breakdown: dto.BreakdownResponse{AttendancePoints: 20.5, BonusPoints: -2, QCPoints: 5, TaskPoints: 3},
	}
}

func TestLeaderboard_RowsInOrder(t *testing.T) {
	board := &dto.LeaderboardResponse{
		Window: dto.WindowResponse{Label: "2025-03", Start: "2025-03-01", End: "2025-03-31"},
		Scorecards: []dto.ScorecardResponse{
			sampleCard("Alice", 31, "Moderate"),
			sampleCard("Bob", 12.5, "Entry"),
		},
	}

	out := Leaderboard(board)

	for _, want := range []string{"2025-03", "Alice", "31.0", "Moderate", "Bob", "12.5", "Entry", "-2.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("输出缺少 %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Alice") > strings.Index(out, "Bob") {
		t.Errorf("行顺序应与排行榜一致:\n%s", out)
	}
}

func TestLeaderboard_Empty(t *testing.T) {
	out := Leaderboard(&dto.LeaderboardResponse{Window: dto.WindowResponse{Label: "2025"}})
	if !strings.Contains(out, "无数据") {
		t.Errorf("空排行榜应提示无数据:\n%s", out)
	}
}

func TestScorecard_ListsMerits(t *testing.T) {
	card := sampleCard("Alice", 31, "Moderate")
	card.Signals = dto.SignalCounts{AttendanceRecords: 21, MeritRecords: 1}
	card.Merits = []dto.DutyRecordResponse{
		{ID: "m1", Type: "merit", Date: "2025-03-14", AdminBonus: intPtr(2), AdminBonusReason: "weekend cover"},
	}

	out := Scorecard(&card)

	for _, want := range []string{"Alice", "31.0", "Moderate", "+2", "weekend cover", "21 条"} {
		if !strings.Contains(out, want) {
			t.Errorf("输出缺少 %q:\n%s", want, out)
		}
	}
}
