// Package report 在终端渲染绩效排行榜与绩效卡。
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"infofix/backend/internal/dto"
)

// styles 报表使用的样式
type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	dim    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		header: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		cell:   lipgloss.NewStyle().Padding(0, 1),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// tierStyle 按等级配色渲染等级名称
func tierStyle(t dto.TierResponse) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Palette.Foreground)).
		Background(lipgloss.Color(t.Palette.Background))
}

// Leaderboard 排行榜表格；行顺序与 board.Scorecards 一致
func Leaderboard(board *dto.LeaderboardResponse) string {
	st := newStyles()

	var b strings.Builder
	b.WriteString(st.title.Render(fmt.Sprintf("绩效排行榜 · %s", board.Window.Label)))
	b.WriteString("\n")
	b.WriteString(st.dim.Render(fmt.Sprintf("%s ~ %s", board.Window.Start, board.Window.End)))
	b.WriteString("\n")

	if len(board.Scorecards) == 0 {
		b.WriteString(st.dim.Render("（无数据）"))
		b.WriteString("\n")
		return b.String()
	}

	cards := board.Scorecards
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.dim).
		Headers("#", "员工", "得分", "等级", "出勤", "奖惩", "质检", "任务").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.header
			}
			if col == 3 && row >= 0 && row < len(cards) {
				return tierStyle(cards[row].Tier).Padding(0, 1)
			}
			return st.cell
		})

	for i, c := range cards {
		t.Row(
			fmt.Sprintf("%d", i+1),
			c.Staff.Name,
			formatScore(c.Score),
			c.Tier.Label,
			formatScore(c.Breakdown.AttendancePoints),
			formatSigned(c.Breakdown.BonusPoints),
			fmt.Sprintf("%d", c.Breakdown.QCPoints),
			fmt.Sprintf("%d", c.Breakdown.TaskPoints),
		)
	}

	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

// Scorecard 单个员工的绩效卡，附奖惩明细
func Scorecard(card *dto.ScorecardResponse) string {
	st := newStyles()

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(card.Tier.Palette.Border)).
		Padding(0, 2)

	lines := []string{
		st.title.Render(card.Staff.Name) + "  " + st.dim.Render(card.Window.Label),
		fmt.Sprintf("得分 %s  %s", formatScore(card.Score), tierStyle(card.Tier).Render(" "+card.Tier.Label+" ")),
		"",
		fmt.Sprintf("出勤 %s 天（%d 条）", formatScore(card.Breakdown.AttendancePoints), card.Signals.AttendanceRecords),
		fmt.Sprintf("质检 %d 台", card.Breakdown.QCPoints),
		fmt.Sprintf("任务 %d 个", card.Breakdown.TaskPoints),
		fmt.Sprintf("奖惩 %s（%d 条）", formatSigned(card.Breakdown.BonusPoints), card.Signals.MeritRecords),
	}
	for _, m := range card.Merits {
		delta := 0
		if m.AdminBonus != nil {
			delta = *m.AdminBonus
		}
		lines = append(lines, st.dim.Render(fmt.Sprintf("  %s  %+d  %s", m.Date, delta, m.AdminBonusReason)))
	}

	return box.Render(strings.Join(lines, "\n")) + "\n"
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func formatSigned(v float64) string {
	return fmt.Sprintf("%+.1f", v)
}
