// Package sikumulu 处理《四库全书简明目录》模板的特有命令：
//
//	\注{content}  → indent=2 的夹注
//	\按{content}  → indent=4 的夹注（可含抬头命令）
//	\國朝 等抬头命令在夹注文字流中展开为带缩进的分段
package sikumulu

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gujitex/digitalize/guji"
)

const (
	zhuIndent = 2 // \注 的缩进
	anIndent  = 4 // \按 的缩进
)

// Plugin 实现 guji.Plugin。
type Plugin struct {
	guji.Nop
}

// New 构造插件实例。
func New() *Plugin { return &Plugin{} }

// TemplateMapping 补充本模板的 digital 模板名。
func (*Plugin) TemplateMapping() map[string]string {
	return map[string]string{
		"四库全书文渊阁简明目录": "SikuWenyuanMulu",
	}
}

// ParseCommand 解析 \注 与 \按 命令，两者都可能跨行。
func (p *Plugin) ParseCommand(name, line string, ctx *guji.ParseContext) ([]guji.Block, int, bool) {
	switch name {
	case "注":
		blocks, consumed := p.parseJiazhu(ctx, `\注`, zhuIndent)
		return blocks, consumed, true
	case "按":
		blocks, consumed := p.parseJiazhu(ctx, `\按`, anIndent)
		return blocks, consumed, true
	}
	return nil, 0, false
}

// ExpandInJiazhu 展开夹注文字流中的抬头命令。返回分段的 IndentDelta
// 相对所属块的基础缩进；需要绝对抬头的命令应在解析阶段预分段。
func (*Plugin) ExpandInJiazhu(text string) []guji.Segment {
	return expandTaitou(text, 0)
}

// parseJiazhu 收集命令的花括号内容并展开为夹注块。
func (p *Plugin) parseJiazhu(ctx *guji.ParseContext, cmd string, indent int) ([]guji.Block, int) {
	full, consumed := collectBraceContent(ctx.Lines, ctx.Index, cmd)
	full = stripStyleWrapper(full)

	segments := expandTaitou(full, indent)

	var kept []guji.Segment
	for _, seg := range segments {
		seg.Text = guji.StripPunct(seg.Text)
		if seg.Text != "" {
			kept = append(kept, seg)
		}
	}

	// 没有特殊分段时返回简单夹注
	if len(kept) == 1 && kept[0].IndentDelta == 0 {
		return []guji.Block{guji.Jiazhu{Text: kept[0].Text, Indent: indent}}, consumed
	}

	var text strings.Builder
	for _, seg := range kept {
		text.WriteString(seg.Text)
	}
	return []guji.Block{guji.Jiazhu{
		Text:     text.String(),
		Indent:   indent,
		Segments: kept,
	}}, consumed
}

// collectBraceContent 收集命令的花括号内容，支持跨行与嵌套。
// 到输入末尾仍未闭合时尽力返回从开括号起捕获到的全部内容。
func collectBraceContent(lines []string, idx int, cmd string) (string, int) {
	var combined strings.Builder
	consumed := 0
	for i := idx; i < len(lines); i++ {
		combined.WriteString(lines[i])
		consumed++
		if i < len(lines)-1 {
			combined.WriteString("\n")
		}

		s := combined.String()
		cmdPos := strings.Index(s, cmd)
		if cmdPos == -1 {
			continue
		}
		braceStart := strings.Index(s[cmdPos+len(cmd):], "{")
		if braceStart == -1 {
			continue
		}
		braceStart += cmdPos + len(cmd)

		depth := 0
		for j := braceStart; j < len(s); j++ {
			switch s[j] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return strings.ReplaceAll(s[braceStart+1:j], "\n", ""), consumed
				}
			}
		}
		// 未闭合，继续读下一行
	}

	// 文档边界附近的底本常有残缺花括号 — 尽力提取
	s := combined.String()
	if pos := strings.Index(s, cmd+"{"); pos != -1 {
		rest := s[pos+len(cmd)+1:]
		if rest != "" {
			return strings.ReplaceAll(strings.TrimRight(rest, "}"), "\n", ""), consumed
		}
	}
	return "", consumed
}

var styleOpenRe = regexp.MustCompile(`\\样式\[.*?\]\{`)

// stripStyleWrapper 去掉 \样式[...]{content} 包裹，保留 content，可多处出现。
func stripStyleWrapper(text string) string {
	result := text
	for {
		loc := styleOpenRe.FindStringIndex(result)
		if loc == nil {
			return result
		}
		inner, end := guji.ExtractBraceContent(result, loc[1]-1)
		result = result[:loc[0]] + inner + result[end:]
	}
}

// 抬头命令集合。长命令在前，\\（TeX 强制换行）必须最后匹配。
var (
	taitouCmds    = []string{`\相对抬头`, `\单抬`, `\平抬`, `\國朝`}
	allTaitouCmds = []string{`\相对抬头`, `\单抬`, `\平抬`, `\國朝`, `\\`}

	relTaitouArgRe = regexp.MustCompile(`^\[(\d+)\]\{(.+?)\}`)
)

// rawSeg 是展开过程的中间分段；placeholder 把强制分列与缩进
// 传递给紧随其后的文字分段。
type rawSeg struct {
	text        string
	delta       int
	force       bool
	placeholder bool
}

// expandTaitou 把文字流按抬头命令切分为分段。
//
// 每个抬头命令截断当前分段并强制下一段另起小列：
//
//	\相对抬头[N]{text} → 绝对缩进 = base − N，text 按新缩进排
//	\单抬             → 绝对缩进 = −1
//	\平抬             → 绝对缩进 = 0
//	\國朝             → 固定文字“國朝”，缩进保持当前上下文不变（与渲染实测一致）
//	\\                → 只强制分列，缩进不变
//
// 返回分段的 IndentDelta 相对 base。
func expandTaitou(text string, base int) []guji.Segment {
	hasCmd := false
	for _, cmd := range allTaitouCmds {
		if strings.Contains(text, cmd) {
			hasCmd = true
			break
		}
	}
	if !hasCmd {
		return []guji.Segment{{Text: text}}
	}

	var raw []rawSeg
	remaining := text
	abs := base

	for remaining != "" {
		pos, cmd := earliestTaitou(remaining)
		if cmd == "" {
			if t := strings.TrimSpace(remaining); t != "" {
				raw = append(raw, rawSeg{text: t, delta: abs - base})
			}
			break
		}

		if before := strings.TrimSpace(remaining[:pos]); before != "" {
			raw = append(raw, rawSeg{text: before, delta: abs - base})
		}
		after := remaining[pos+len(cmd):]

		switch cmd {
		case `\相对抬头`:
			trimmed := strings.TrimLeft(after, " \t\n")
			if m := relTaitouArgRe.FindStringSubmatch(trimmed); m != nil {
				n, _ := strconv.Atoi(m[1])
				target := base - n
				raw = append(raw, rawSeg{text: m[2], delta: target - base, force: true})
				remaining = strings.TrimLeft(trimmed[len(m[0]):], " \t\n")
				abs = target
			} else {
				remaining = trimmed
			}
			continue

		case `\國朝`:
			raw = append(raw, rawSeg{text: "國朝", delta: abs - base, force: true})
			remaining = strings.TrimLeft(after, " \t\n")
			continue

		case `\单抬`:
			abs = -1
			remaining = strings.TrimLeft(after, " \t\n")
		case `\平抬`:
			abs = 0
			remaining = strings.TrimLeft(after, " \t\n")
		case `\\`:
			remaining = strings.TrimLeft(after, " \t\n")
		}

		// \单抬、\平抬、\\ 之后的第一个分段需要强制分列，用占位分段传递。
		if strings.TrimSpace(remaining) != "" {
			raw = append(raw, rawSeg{delta: abs - base, force: true, placeholder: true})
		}
	}

	var segments []guji.Segment
	for i := 0; i < len(raw); i++ {
		seg := raw[i]
		if seg.placeholder {
			if i+1 < len(raw) {
				raw[i+1].force = true
				raw[i+1].delta = seg.delta
			}
			continue
		}
		segments = append(segments, guji.Segment{
			Text:        seg.text,
			IndentDelta: seg.delta,
			ForceBreak:  seg.force,
		})
	}
	return segments
}

// earliestTaitou 找到最早出现的抬头命令。\\ 命中的位置若同时是
// 更长命令的起点，以更长的命令为准。
func earliestTaitou(s string) (int, string) {
	pos, found := len(s), ""
	for _, cmd := range allTaitouCmds {
		if p := strings.Index(s, cmd); p != -1 && p < pos {
			pos, found = p, cmd
		}
	}
	if found == "" {
		return -1, ""
	}
	if found == `\\` {
		for _, cmd := range taitouCmds {
			if strings.HasPrefix(s[pos:], cmd) {
				found = cmd
				break
			}
		}
	}
	return pos, found
}
