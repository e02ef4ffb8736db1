// Package digital 把列序列生成布局模式（guji-digital 方言）的 TeX 文本。
package digital

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gujitex/digitalize/guji"
	"github.com/gujitex/digitalize/layout"
)

// 核心模板名映射（guji 名 → digital 名），插件映射可补充或覆盖。
var templateMap = map[string]string{
	"四库全书彩色": "SiKuQuanShu-colored",
	"四库全书":   "default",
	"红楼梦甲戌本": "HongLouMengJiaXuBen",
}

var (
	documentclassRe = regexp.MustCompile(`^\\documentclass\[(.+?)\]\{(?:guji|ltc-guji)\}`)
	// 布局模式下不再需要的宏包
	usepackageRe = regexp.MustCompile(`^\\usepackage\{(?:enumitem|tikz)\}`)
)

// Generate 把列序列与保留区域拼装成完整的 guji-digital 文件。
// footer 仅为管线契约保留：文档结尾统一规范化为 \end{document}。
func Generate(preamble, preserved string, columns []layout.Column, footer string, plugin guji.Plugin) string {
	if plugin == nil {
		plugin = guji.Nop{}
	}

	parts := []string{convertPreamble(preamble, plugin), ""}

	// 封面、书名页原样保留
	if strings.TrimSpace(preserved) != "" {
		parts = append(parts, strings.TrimRight(preserved, " \t\n"), "")
	}

	// 第一个章标题提升到数字化内容环境之前，只输出一次。
	for _, col := range columns {
		if c, ok := col.(layout.Chapter); ok {
			parts = append(parts, fmt.Sprintf(`\chapter{%s}`, c.Title))
			break
		}
	}

	parts = append(parts, `\begin{数字化内容}`)

	chapterCount := 0
	for _, col := range columns {
		switch c := col.(type) {
		case layout.Chapter:
			chapterCount++
			if chapterCount == 1 {
				// 已输出在数字化内容之前
				continue
			}
			// 后续章：关闭数字化内容 → 换页 → 章标题 → 重新开始。
			// 紧邻的 \换页 先去掉，避免环境末尾残留孤立换页。
			if parts[len(parts)-1] == `\换页` {
				parts = parts[:len(parts)-1]
			}
			parts = append(parts,
				`\end{数字化内容}`,
				`\newpage`,
				fmt.Sprintf(`\chapter{%s}`, c.Title),
				`\begin{数字化内容}`,
			)

		case layout.Newpage:
			// 连续换页折叠为一次
			if parts[len(parts)-1] != `\换页` {
				parts = append(parts, `\换页`)
			}

		case layout.Yinzhang:
			parts = append(parts, c.Raw+"%")

		case layout.Single:
			if c.Indent != 0 {
				parts = append(parts, fmt.Sprintf(`\缩进[%d] %s`, c.Indent, c.Text))
			} else {
				parts = append(parts, c.Text)
			}

		case layout.Dual:
			var rOpt, lOpt string
			if c.RightIndent != nil {
				rOpt = fmt.Sprintf("[indent=%d]", *c.RightIndent)
			}
			if c.LeftIndent != nil {
				lOpt = fmt.Sprintf("[indent=%d]", *c.LeftIndent)
			}
			// 总是输出 \缩进[N]（含 N=0），保证抬头之后的列缩进明确。
			parts = append(parts, fmt.Sprintf(`\缩进[%d]\双列{\右小列%s{%s}\左小列%s{%s}}`,
				c.Indent, rOpt, c.Right, lOpt, c.Left))
		}
	}

	parts = append(parts, "", `\end{数字化内容}`, `\end{document}`, "")
	return strings.Join(parts, "\n")
}

// convertPreamble 转换文档头：模板名重映射、去掉多余宏包与注释行、
// 连续空行折叠为最多一个。
func convertPreamble(preamble string, plugin guji.Plugin) string {
	mapping := make(map[string]string, len(templateMap))
	for k, v := range templateMap {
		mapping[k] = v
	}
	for k, v := range plugin.TemplateMapping() {
		mapping[k] = v
	}

	var result []string
	for _, line := range strings.Split(preamble, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := documentclassRe.FindStringSubmatch(trimmed); m != nil {
			name := m[1]
			if mapped, ok := mapping[name]; ok {
				name = mapped
			}
			result = append(result, fmt.Sprintf(`\documentclass[%s]{guji-digital}`, name))
			continue
		}
		if usepackageRe.MatchString(trimmed) {
			continue
		}
		if strings.HasPrefix(trimmed, "%") {
			continue
		}
		result = append(result, line)
	}

	var cleaned []string
	prevEmpty := false
	for _, line := range result {
		empty := strings.TrimSpace(line) == ""
		if empty && prevEmpty {
			continue
		}
		cleaned = append(cleaned, line)
		prevEmpty = empty
	}
	return strings.Join(cleaned, "\n")
}
