package layout

import (
	"strings"
	"testing"

	"github.com/gujitex/digitalize/guji"
)

func mustBuild(t *testing.T, blocks []guji.Block, width int) []Column {
	t.Helper()
	columns, err := Build(blocks, Options{GridWidth: width})
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	return columns
}

func TestTextBlockPassthrough(t *testing.T) {
	columns := mustBuild(t, []guji.Block{guji.Text{Text: "四库全书总目"}}, DefaultGridWidth)
	if len(columns) != 1 {
		t.Fatalf("expected 1 column, got %d", len(columns))
	}
	single, ok := columns[0].(Single)
	if !ok || single.Text != "四库全书总目" || single.Indent != 0 {
		t.Fatalf("unexpected column: %#v", columns[0])
	}
}

func TestEmptyTextDropped(t *testing.T) {
	columns := mustBuild(t, []guji.Block{
		guji.Text{Text: ""},
		guji.Tiaomu{Level: 1, Text: ""},
	}, DefaultGridWidth)
	if len(columns) != 0 {
		t.Fatalf("空文字块不应产生列: %#v", columns)
	}
}

func TestTiaomuLevelBecomesIndent(t *testing.T) {
	columns := mustBuild(t, []guji.Block{guji.Tiaomu{Level: 2, Text: "易類"}}, DefaultGridWidth)
	single := columns[0].(Single)
	if single.Indent != 2 || single.Text != "易類" {
		t.Fatalf("unexpected column: %#v", single)
	}
}

// TestParagraphColumnCount 验证列数公式：
// L ≤ W−F 时 1 列，否则 1 + ceil((L−(W−F)) / (W−I))。
func TestParagraphColumnCount(t *testing.T) {
	cases := []struct {
		length, width, indent, first int
		want                         int
	}{
		{8, 10, 0, 0, 1},
		{10, 10, 0, 0, 1},
		{11, 10, 0, 0, 2},
		{30, 10, 1, 2, 4},  // 8 + 9 + 9 + 4
		{17, 10, 1, 2, 2},  // 8 + 9，恰好装满
		{3, 10, 5, 8, 2},   // 首列仅 2 字
	}
	for _, c := range cases {
		block := guji.Paragraph{
			Text:        strings.Repeat("字", c.length),
			Indent:      c.indent,
			FirstIndent: c.first,
		}
		columns := mustBuild(t, []guji.Block{block}, c.width)
		if len(columns) != c.want {
			t.Fatalf("L=%d W=%d I=%d F=%d: expected %d columns, got %d",
				c.length, c.width, c.indent, c.first, c.want, len(columns))
		}
		first := columns[0].(Single)
		if first.Indent != c.first {
			t.Fatalf("首列缩进应为 first-indent=%d, got %d", c.first, first.Indent)
		}
		for _, col := range columns[1:] {
			if col.(Single).Indent != c.indent {
				t.Fatalf("后续列缩进应为 indent=%d: %#v", c.indent, col)
			}
		}
	}
}

func TestParagraphIndentOverflow(t *testing.T) {
	block := guji.Paragraph{Text: "甲乙丙", Indent: 5, FirstIndent: 5}
	if _, err := Build([]guji.Block{block}, Options{GridWidth: 5}); err == nil {
		t.Fatalf("缩进耗尽网格宽度时应报错")
	}
}

// TestJiazhuElevationPacking 验证抬头分段的打包行为：
// 流 [("甲乙丙", indent 0), ("丁", indent 2, 强制分列)]，网格宽度 5。
func TestJiazhuElevationPacking(t *testing.T) {
	block := guji.Jiazhu{
		Text:   "甲乙丙丁",
		Indent: 0,
		Segments: []guji.Segment{
			{Text: "甲乙丙"},
			{Text: "丁", IndentDelta: 2, ForceBreak: true},
		},
	}
	columns := mustBuild(t, []guji.Block{block}, 5)
	if len(columns) != 1 {
		t.Fatalf("expected 1 dual column, got %d: %#v", len(columns), columns)
	}
	dual := columns[0].(Dual)
	if dual.Indent != 0 || dual.Right != "甲乙丙" || dual.Left != "丁" {
		t.Fatalf("unexpected dual column: %#v", dual)
	}
	if dual.LeftIndent == nil || *dual.LeftIndent != 2 {
		t.Fatalf("左小列应记录缩进覆盖 2: %#v", dual.LeftIndent)
	}
	if dual.RightIndent != nil {
		t.Fatalf("右小列不应有缩进覆盖: %#v", dual.RightIndent)
	}
}

func TestJiazhuOddSubcolumns(t *testing.T) {
	// 宽度 5、12 字 → 小列 5+5+2 → 2 个大列，末尾左小列为空
	block := guji.Jiazhu{Text: strings.Repeat("注", 12), Indent: 0}
	columns := mustBuild(t, []guji.Block{block}, 5)
	if len(columns) != 2 {
		t.Fatalf("expected 2 dual columns, got %d", len(columns))
	}
	last := columns[1].(Dual)
	if last.Left != "" {
		t.Fatalf("奇数个小列时末尾左小列应为空: %#v", last)
	}
	if last.LeftIndent != nil {
		t.Fatalf("空左小列与大列同缩进，不应有覆盖: %#v", last.LeftIndent)
	}
	if first := columns[0].(Dual); len([]rune(first.Right)) != 5 || len([]rune(first.Left)) != 5 {
		t.Fatalf("前两个小列应装满: %#v", first)
	}
}

func TestJiazhuForceBreakStartsNewSubcolumn(t *testing.T) {
	block := guji.Jiazhu{
		Indent: 0,
		Segments: []guji.Segment{
			{Text: "一二三"},
			{Text: "四五", ForceBreak: true},
		},
	}
	columns := mustBuild(t, []guji.Block{block}, 10)
	dual := columns[0].(Dual)
	// 右小列还有余量，但强制分列使“四五”另起左小列
	if dual.Right != "一二三" || dual.Left != "四五" {
		t.Fatalf("强制分列未生效: %#v", dual)
	}
	if dual.LeftIndent != nil {
		t.Fatalf("同缩进不应有覆盖: %#v", dual.LeftIndent)
	}
}

func TestJiazhuIndentChangeSplitsSubcolumn(t *testing.T) {
	block := guji.Jiazhu{
		Indent: 0,
		Segments: []guji.Segment{
			{Text: "一二三"},
			{Text: "甲甲", IndentDelta: 1},
		},
	}
	columns := mustBuild(t, []guji.Block{block}, 5)
	dual := columns[0].(Dual)
	// 小列不得混排不同缩进的分段
	if dual.Right != "一二三" || dual.Left != "甲甲" {
		t.Fatalf("缩进变化未切分小列: %#v", dual)
	}
	if dual.LeftIndent == nil || *dual.LeftIndent != 1 {
		t.Fatalf("左小列应记录缩进覆盖 1: %#v", dual.LeftIndent)
	}
}

func TestConsecutiveJiazhuMerge(t *testing.T) {
	blocks := []guji.Block{
		guji.Jiazhu{Text: "甲乙丙", Indent: 0},
		guji.Jiazhu{Text: "丁戊己", Indent: 0},
	}
	columns := mustBuild(t, blocks, 10)
	if len(columns) != 1 {
		t.Fatalf("连续夹注应合并为同一小列流: %#v", columns)
	}
	dual := columns[0].(Dual)
	if dual.Right != "甲乙丙丁戊己" {
		t.Fatalf("小列流未跨块连续填充: %#v", dual)
	}
}

func TestJiazhuIndentOverflow(t *testing.T) {
	block := guji.Jiazhu{Text: "注文", Indent: 5}
	if _, err := Build([]guji.Block{block}, Options{GridWidth: 5}); err == nil {
		t.Fatalf("夹注缩进耗尽网格宽度时应报错")
	}
}

// splitPlugin 把夹注文字在“丨”处拆开并提升后半段。
type splitPlugin struct {
	guji.Nop
}

func (splitPlugin) ExpandInJiazhu(text string) []guji.Segment {
	parts := strings.SplitN(text, "丨", 2)
	if len(parts) == 1 {
		return []guji.Segment{{Text: text}}
	}
	return []guji.Segment{
		{Text: parts[0]},
		{Text: parts[1], IndentDelta: -1, ForceBreak: true},
	}
}

func TestJiazhuPluginExpansion(t *testing.T) {
	block := guji.Jiazhu{Text: "甲乙丨丙", Indent: 2}
	columns, err := Build([]guji.Block{block}, Options{GridWidth: 5, Plugin: splitPlugin{}})
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	dual := columns[0].(Dual)
	if dual.Indent != 2 || dual.Right != "甲乙" || dual.Left != "丙" {
		t.Fatalf("插件展开未生效: %#v", dual)
	}
	if dual.LeftIndent == nil || *dual.LeftIndent != 1 {
		t.Fatalf("左小列缩进应为 2−1=1: %#v", dual.LeftIndent)
	}
}

func TestPassthroughColumns(t *testing.T) {
	blocks := []guji.Block{
		guji.Chapter{Title: "經部"},
		guji.Newpage{},
		guji.Yinzhang{Raw: `\印章[颜色=红]{a.png}`},
	}
	columns := mustBuild(t, blocks, DefaultGridWidth)
	if len(columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(columns))
	}
	if c := columns[0].(Chapter); c.Title != "經部" {
		t.Fatalf("unexpected chapter: %#v", c)
	}
	if _, ok := columns[1].(Newpage); !ok {
		t.Fatalf("expected newpage, got %#v", columns[1])
	}
	if c := columns[2].(Yinzhang); c.Raw != `\印章[颜色=红]{a.png}` {
		t.Fatalf("unexpected yinzhang: %#v", c)
	}
}
