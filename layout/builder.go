// Package layout 将语义块序列按网格参数分栏为列序列。
//
// 核心算法：连续的夹注块合并为统一的小列流，每个小列按自己的缩进
// 独立计算可用字数（gridWidth − indent），每两个连续小列组成一个大列。
package layout

import (
	"fmt"

	"github.com/gujitex/digitalize/guji"
)

// Build 将语义块序列转换为列序列。任一实际用到的缩进耗尽网格宽度时报错。
func Build(blocks []guji.Block, opts Options) ([]Column, error) {
	width := opts.gridWidth()
	plugin := opts.plugin()

	var columns []Column
	for i := 0; i < len(blocks); i++ {
		switch b := blocks[i].(type) {
		case guji.Chapter:
			columns = append(columns, Chapter{Title: b.Title})
		case guji.Newpage:
			columns = append(columns, Newpage{})
		case guji.Yinzhang:
			columns = append(columns, Yinzhang{Raw: b.Raw})
		case guji.Text:
			if b.Text != "" {
				columns = append(columns, Single{Text: b.Text, Indent: b.Indent})
			}
		case guji.Tiaomu:
			if b.Text != "" {
				columns = append(columns, Single{Text: b.Text, Indent: b.Level})
			}
		case guji.Paragraph:
			cols, err := buildParagraph(b, width)
			if err != nil {
				return nil, err
			}
			columns = append(columns, cols...)
		case guji.Jiazhu:
			// 收集连续的夹注块，合并为统一的小列流。
			run := []guji.Jiazhu{b}
			for i+1 < len(blocks) {
				next, ok := blocks[i+1].(guji.Jiazhu)
				if !ok {
					break
				}
				run = append(run, next)
				i++
			}
			cols, err := buildJiazhuRun(run, width, plugin)
			if err != nil {
				return nil, err
			}
			columns = append(columns, cols...)
		}
	}
	return columns, nil
}

// buildParagraph 把段落按每列可用字数贪心切分为多个单列。
// 第一列使用 FirstIndent，其余列使用 Indent。
func buildParagraph(b guji.Paragraph, width int) ([]Column, error) {
	text := []rune(b.Text)

	var columns []Column
	pos := 0
	first := true
	for pos < len(text) {
		indent := b.Indent
		if first {
			indent = b.FirstIndent
		}
		perCol := width - indent
		if perCol <= 0 {
			return nil, fmt.Errorf("段落缩进 %d 耗尽网格宽度 %d", indent, width)
		}
		end := pos + perCol
		if end > len(text) {
			end = len(text)
		}
		columns = append(columns, Single{Text: string(text[pos:end]), Indent: indent})
		pos = end
		first = false
	}
	return columns, nil
}

// segment 是小列流中的一个分段，缩进已换算为绝对值。
type segment struct {
	text   []rune
	indent int
	force  bool
}

// subColumn 是分栏出的一个半宽小列。
type subColumn struct {
	text   string
	indent int
}

// buildJiazhuRun 把连续的夹注块展开为分段流并打包为大列。
//
// 小列的缩进由它消耗的第一个分段决定；贪心填充直到装满
// gridWidth − indent 个字，或下一分段缩进不同 / 要求强制分列为止
// （提前结束，余量留空）。
func buildJiazhuRun(run []guji.Jiazhu, width int, plugin guji.Plugin) ([]Column, error) {
	var stream []segment
	appendSegment := func(base int, seg guji.Segment) {
		if seg.Text == "" {
			return
		}
		stream = append(stream, segment{
			text:   []rune(seg.Text),
			indent: base + seg.IndentDelta,
			force:  seg.ForceBreak,
		})
	}
	for _, b := range run {
		if len(b.Segments) > 0 {
			for _, seg := range b.Segments {
				appendSegment(b.Indent, seg)
			}
			continue
		}
		// 未预分段的块交给插件展开（Nop 原样返回单段）。
		for _, seg := range plugin.ExpandInJiazhu(b.Text) {
			appendSegment(b.Indent, seg)
		}
	}
	if len(stream) == 0 {
		return nil, nil
	}

	var subcols []subColumn
	segIdx, segPos := 0, 0
	for segIdx < len(stream) {
		if segPos >= len(stream[segIdx].text) {
			segIdx++
			segPos = 0
			continue
		}

		colIndent := stream[segIdx].indent
		perCol := width - colIndent
		if perCol <= 0 {
			return nil, fmt.Errorf("夹注缩进 %d 耗尽网格宽度 %d", colIndent, width)
		}

		var colText []rune
		remaining := perCol
		for remaining > 0 && segIdx < len(stream) {
			cur := stream[segIdx]
			take := len(cur.text) - segPos
			if take > remaining {
				take = remaining
			}
			colText = append(colText, cur.text[segPos:segPos+take]...)
			segPos += take
			remaining -= take

			if segPos >= len(cur.text) {
				segIdx++
				segPos = 0
				// 还有余量但下一分段缩进不同或强制分列时，本小列提前结束。
				if remaining > 0 && segIdx < len(stream) {
					next := stream[segIdx]
					if next.indent != colIndent || next.force {
						break
					}
				}
			}
		}
		subcols = append(subcols, subColumn{text: string(colText), indent: colIndent})
	}

	// 每两个小列组成一个大列；奇数个时末尾小列配一个同缩进的空左小列。
	var columns []Column
	for k := 0; k < len(subcols); k += 2 {
		right := subcols[k]
		left := subColumn{indent: right.indent}
		if k+1 < len(subcols) {
			left = subcols[k+1]
		}

		col := Dual{Indent: right.indent, Right: right.text, Left: left.text}
		if left.indent != col.Indent {
			li := left.indent
			col.LeftIndent = &li
		}
		columns = append(columns, col)
	}
	return columns, nil
}
