// Package guji 解析语义模式（guji.cls 方言）的 TeX 文件。
package guji

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Document 是一次解析的完整结果。Preamble 与 Footer 原样保留，
// Preserved 是封面/书名页等不参与布局的区域。
type Document struct {
	Preamble  string
	Preserved string
	Blocks    []Block
	Footer    string
}

var (
	beginDocRe  = regexp.MustCompile(`\\begin\{document\}`)
	endDocRe    = regexp.MustCompile(`\\end\{document\}`)
	bodyEnvRe   = regexp.MustCompile(`\\begin\{(?:正文|BodyText)\}`)
	bodyBeginRe = regexp.MustCompile(`\\begin\{(?:正文|BodyText)\}\s*`)
	bodyEndRe   = regexp.MustCompile(`\\end\{(?:正文|BodyText)\}\s*`)

	chapterRe  = regexp.MustCompile(`^\\chapter\{(.+)\}`)
	yinzhangRe = regexp.MustCompile(`^\\印章\s*\[`)
	paraRe     = regexp.MustCompile(`^\\begin\{段落\}(\[.*?\])?`)
	tiaomuRe   = regexp.MustCompile(`^\\条目\[(\d+)\]\{(.+)\}`)
	jiazhuRe   = regexp.MustCompile(`\\夹注\[.*?\]\{(.+?)\}`)
	styleRe    = regexp.MustCompile(`^\\样式\[.*?\]\{(.+)\}`)

	cmdNameRe       = regexp.MustCompile(`^\\(\S+?)[\[{\s]`)
	bareCmdRe       = regexp.MustCompile(`^\\(\S+)$`)
	lineCommentRe   = regexp.MustCompile(`%.*$`)
	paragraphEndTag = `\end{段落}`
)

// Parse 解析完整的 guji TeX 文件。plugin 为 nil 时使用 Nop。
func Parse(content string, plugin Plugin) (*Document, error) {
	if plugin == nil {
		plugin = Nop{}
	}

	preamble, body, footer, err := splitDocument(content)
	if err != nil {
		return nil, err
	}
	preserved, main := splitBody(body)

	p := &parser{plugin: plugin}
	p.parseBody(main)

	return &Document{
		Preamble:  preamble,
		Preserved: preserved,
		Blocks:    plugin.PostprocessBlocks(p.blocks),
		Footer:    footer,
	}, nil
}

// splitDocument 按文档边界标记切出 preamble、body 与 footer。
func splitDocument(content string) (preamble, body, footer string, err error) {
	begin := beginDocRe.FindStringIndex(content)
	end := endDocRe.FindStringIndex(content)
	if begin == nil || end == nil {
		return "", "", "", fmt.Errorf(`无法找到 \begin{document} 或 \end{document}`)
	}
	return content[:begin[1]], content[begin[1]:end[0]], content[end[0]:], nil
}

// splitBody 切出封面/书名页（原样保留）与正文区域。
// 没有正文环境标记时整个 body 都按正文解析。
func splitBody(body string) (preserved, main string) {
	loc := bodyEnvRe.FindStringIndex(body)
	if loc == nil {
		return "", body
	}
	return body[:loc[0]], body[loc[0]:]
}

type parser struct {
	plugin Plugin
	blocks []Block
}

func (p *parser) parseBody(content string) {
	if loc := bodyBeginRe.FindStringIndex(content); loc != nil {
		content = content[:loc[0]] + content[loc[1]:]
	}
	if loc := bodyEndRe.FindStringIndex(content); loc != nil {
		content = content[:loc[0]] + content[loc[1]:]
	}

	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines); {
		line := strings.TrimRight(lines[i], " \t\r")
		trimmed := strings.TrimSpace(line)

		// 空行是段落分隔符，不产生列；纯注释行同样跳过。
		if trimmed == "" || strings.HasPrefix(trimmed, "%") {
			i++
			continue
		}

		if replaced, ok := p.plugin.PreprocessLine(line); ok {
			line = replaced
		}

		if consumed := p.parseLine(line, lines, i); consumed > 0 {
			i += consumed
		} else {
			i++
		}
	}
}

// parseLine 按优先级尝试识别一行，返回消耗的行数。
func (p *parser) parseLine(line string, lines []string, idx int) int {
	stripped := strings.TrimSpace(line)

	if m := chapterRe.FindStringSubmatch(stripped); m != nil {
		p.blocks = append(p.blocks, Chapter{Title: m[1]})
		return 1
	}

	if stripped == `\newpage` {
		p.blocks = append(p.blocks, Newpage{})
		return 1
	}

	if yinzhangRe.MatchString(stripped) {
		return p.parseYinzhang(lines, idx)
	}

	if m := paraRe.FindStringSubmatch(stripped); m != nil {
		return p.parseParagraph(lines, idx, m[1])
	}

	if m := tiaomuRe.FindStringSubmatch(stripped); m != nil {
		level, _ := strconv.Atoi(m[1])
		text := StripPunct(StripBookMarkers(m[2]))
		// 条目内嵌夹注时，把注文拼接在条目文字之后。
		if jm := jiazhuRe.FindStringSubmatchIndex(text); jm != nil {
			main := strings.TrimSpace(text[:jm[0]])
			text = main + StripPunct(text[jm[2]:jm[3]])
		}
		p.blocks = append(p.blocks, Tiaomu{Level: level, Text: text})
		return 1
	}

	// 模板特有命令交给插件
	if strings.HasPrefix(stripped, `\`) {
		if name := commandName(stripped); name != "" {
			ctx := &ParseContext{Lines: lines, Index: idx}
			if blocks, consumed, ok := p.plugin.ParseCommand(name, stripped, ctx); ok {
				p.blocks = append(p.blocks, blocks...)
				if consumed < 1 {
					consumed = 1
				}
				return consumed
			}
		}
	}

	// \样式 独立成行时只保留内容
	if m := styleRe.FindStringSubmatch(stripped); m != nil {
		if text := StripPunct(StripBookMarkers(m[1])); text != "" {
			p.blocks = append(p.blocks, Text{Text: text})
		}
		return 1
	}

	// 纯文本行（含书名行）；插件不识别的命令也按字面文本兜底，
	// 容忍不同底本之间的模板漂移。
	if text := StripPunct(StripBookMarkers(stripped)); text != "" {
		p.blocks = append(p.blocks, Text{Text: text})
	}
	return 1
}

func commandName(stripped string) string {
	if m := cmdNameRe.FindStringSubmatch(stripped); m != nil {
		return m[1]
	}
	if m := bareCmdRe.FindStringSubmatch(stripped); m != nil {
		return m[1]
	}
	return ""
}

// parseYinzhang 解析 \印章[...]{...}，命令可能跨多行。
// 收齐后去掉全部空白，重新生成规范的单行形式。
func (p *parser) parseYinzhang(lines []string, idx int) int {
	var combined strings.Builder
	consumed := 0
	for i := idx; i < len(lines); i++ {
		combined.WriteString(strings.TrimSpace(lines[i]))
		combined.WriteString(" ")
		consumed++
		s := combined.String()
		if strings.Contains(s, "{") && strings.Contains(s, "}") && braceDepth(s) == 0 {
			break
		}
	}

	flat := strings.Join(strings.Fields(combined.String()), "")
	raw := flat
	if opts, end, ok := ExtractOptionalArg(flat, len(`\印章`)); ok && end < len(flat) && flat[end] == '{' {
		if file, _ := ExtractBraceContent(flat, end); file != "" {
			raw = fmt.Sprintf(`\印章[%s]{%s}`, opts, file)
		}
	}
	p.blocks = append(p.blocks, Yinzhang{Raw: raw})
	return consumed
}

func braceDepth(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth
}

// parseParagraph 解析 \begin{段落}[indent=N, first-indent=M] ... \end{段落}。
// 结束标记缺失时收集到输入末尾为止。
func (p *parser) parseParagraph(lines []string, idx int, optsRaw string) int {
	indent := 0
	firstIndent := 0
	hasFirst := false
	if optsRaw != "" {
		if opts, err := ParseOptions(strings.Trim(optsRaw, "[]")); err == nil {
			indent = IntOption(opts, "indent", 0)
			if v, ok := opts["first-indent"]; ok && v != "" {
				if n, err := strconv.Atoi(v); err == nil {
					firstIndent = n
					hasFirst = true
				}
			}
		}
	}
	if !hasFirst {
		firstIndent = indent
	}

	var text strings.Builder
	consumed := 1 // \begin{段落} 行
	for i := idx + 1; i < len(lines); i++ {
		consumed++
		if strings.Contains(lines[i], paragraphEndTag) {
			break
		}
		cl := strings.TrimSpace(lines[i])
		if strings.HasPrefix(cl, "%") {
			continue
		}
		text.WriteString(lineCommentRe.ReplaceAllString(cl, ""))
	}

	if body := StripPunct(text.String()); body != "" {
		p.blocks = append(p.blocks, Paragraph{
			Text:        body,
			Indent:      indent,
			FirstIndent: firstIndent,
		})
	}
	return consumed
}
