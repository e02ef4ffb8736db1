package guji

import "strings"

// guji-digital 的网格不渲染标点，所有解析出的文字一律去除标点与书名号。
const punctuation = "，。、；：「」『』《》〈〉·？！（）〔〕"

// StripPunct 去除标点符号。
func StripPunct(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !strings.ContainsRune(punctuation, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StripBookMarkers 去除书名号《》。
func StripBookMarkers(text string) string {
	return strings.NewReplacer("《", "", "》", "").Replace(text)
}

// CharLen 返回文字的显示字符数（一个汉字计 1，空格不计）。
func CharLen(text string) int {
	n := 0
	for _, r := range text {
		if r != ' ' {
			n++
		}
	}
	return n
}

// ExtractBraceContent 从 start（字节偏移）处提取花括号内的内容，支持嵌套。
// 返回内容与结束偏移；start 处不是 '{' 时返回空串与原偏移。
// 花括号未闭合时返回从开括号到输入末尾的全部内容（尽力而为）。
func ExtractBraceContent(text string, start int) (string, int) {
	if start >= len(text) || text[start] != '{' {
		return "", start
	}
	depth := 0
	begin := start + 1
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[begin:i], i + 1
			}
		}
	}
	return text[begin:], len(text)
}

// ExtractOptionalArg 提取 [...] 形式的可选参数（允许 start 处有空白）。
// 第三个返回值表示是否存在可选参数。
func ExtractOptionalArg(text string, start int) (string, int, bool) {
	pos := start
	for pos < len(text) && (text[pos] == ' ' || text[pos] == '\t') {
		pos++
	}
	if pos >= len(text) || text[pos] != '[' {
		return "", start, false
	}
	depth := 0
	begin := pos + 1
	for i := pos; i < len(text); i++ {
		switch text[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[begin:i], i + 1, true
			}
		}
	}
	return text[begin:], len(text), true
}
