package performance

// Palette 等级展示配色（十六进制颜色）
type Palette struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
	Border     string `json:"border"`
}

// Tier 绩效等级；除展示外无其他业务含义
type Tier struct {
	Name    string  `json:"name"`
	Rank    int     `json:"rank"` // Entry=0 … Diamond=6
	Label   string  `json:"label"`
	Icon    string  `json:"icon"`
	Palette Palette `json:"palette"`

	min    float64
	hasMin bool
}

// Threshold 进入该等级的最低分；Entry 没有下限
func (t Tier) Threshold() (float64, bool) { return t.min, t.hasMin }

// tiers 按阈值从高到低排列，Classify 取第一个满足 score >= min 的等级
var tiers = []Tier{
	{Name: "Diamond", Rank: 6, Label: "Diamond", Icon: "gem", min: 70, hasMin: true,
		Palette: Palette{Background: "#ECFEFF", Foreground: "#0E7490", Border: "#67E8F9"}},
	{Name: "Achiever", Rank: 5, Label: "Achiever", Icon: "trophy", min: 60, hasMin: true,
		Palette: Palette{Background: "#FEF9C3", Foreground: "#A16207", Border: "#FDE047"}},
	{Name: "Expert", Rank: 4, Label: "Expert", Icon: "award", min: 50, hasMin: true,
		Palette: Palette{Background: "#F3E8FF", Foreground: "#7E22CE", Border: "#D8B4FE"}},
	{Name: "Core", Rank: 3, Label: "Core", Icon: "shield-check", min: 40, hasMin: true,
		Palette: Palette{Background: "#DBEAFE", Foreground: "#1D4ED8", Border: "#93C5FD"}},
	{Name: "Moderate", Rank: 2, Label: "Moderate", Icon: "trending-up", min: 30, hasMin: true,
		Palette: Palette{Background: "#DCFCE7", Foreground: "#15803D", Border: "#86EFAC"}},
	{Name: "Developing", Rank: 1, Label: "Developing", Icon: "sprout", min: 20, hasMin: true,
		Palette: Palette{Background: "#FFEDD5", Foreground: "#C2410C", Border: "#FDBA74"}},
}

var entryTier = Tier{Name: "Entry", Rank: 0, Label: "Entry", Icon: "circle-dot",
	Palette: Palette{Background: "#F1F5F9", Foreground: "#475569", Border: "#CBD5E1"}}

// Classify 分数 → 等级
func Classify(score float64) Tier {
	for _, t := range tiers {
		if score >= t.min {
			return t
		}
	}
	return entryTier
}

// Tiers 全部等级，从高到低
func Tiers() []Tier {
	out := make([]Tier, 0, len(tiers)+1)
	out = append(out, tiers...)
	return append(out, entryTier)
}
