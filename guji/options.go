package guji

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	optionLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "Number", Pattern: `-?\d+`},
		{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_-]*`},
		{Name: "Symbol", Pattern: `[=,]`},
	})

	optionParser = participle.MustBuild[optionList](
		participle.Lexer(optionLexer),
		participle.Elide("Whitespace"),
	)
)

// optionList 对应 [key=value, key=value] 形式的可选参数体（不含方括号）。
type optionList struct {
	Entries []*optionEntry `parser:"( @@ ( ',' @@ )* )?"`
}

type optionEntry struct {
	Key   string  `parser:"@Ident"`
	Value *string `parser:"( '=' @(Number | Ident) )?"`
}

// ParseOptions 解析可选参数串，返回键值表。无值的键映射为空字符串。
func ParseOptions(raw string) (map[string]string, error) {
	opts, err := optionParser.ParseString("", raw)
	if err != nil {
		return nil, fmt.Errorf("解析可选参数 %q 失败: %w", raw, err)
	}
	out := make(map[string]string, len(opts.Entries))
	for _, e := range opts.Entries {
		if e.Value != nil {
			out[e.Key] = *e.Value
		} else {
			out[e.Key] = ""
		}
	}
	return out, nil
}

// IntOption 读取整数参数，缺失或非法时返回 def。
func IntOption(opts map[string]string, key string, def int) int {
	v, ok := opts[key]
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
