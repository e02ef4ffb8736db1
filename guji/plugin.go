package guji

// Plugin 是模板特有命令的扩展点，解析、布局与生成三个阶段都会咨询。
// 实现方通常嵌入 Nop，只覆盖需要的能力；插件由调用方显式构造注入，
// 引擎不做任何动态发现。
type Plugin interface {
	// TemplateMapping 返回模板名映射（guji 名 → digital 名），
	// 用于补充或覆盖核心映射表。
	TemplateMapping() map[string]string

	// PreprocessLine 预处理单行。返回 (替换后的行, true)，
	// 或 false 表示不处理、交给核心引擎。
	PreprocessLine(line string) (string, bool)

	// ParseCommand 解析模板特有命令。line 是去除首尾空白后的整行，
	// ctx 暴露扫描现场供跨行收集。返回 (语义块, 消耗的行数, true)，
	// 或 false 表示不识别该命令。
	ParseCommand(name, line string, ctx *ParseContext) ([]Block, int, bool)

	// ExpandInJiazhu 在夹注文字流中展开特殊命令，返回分段列表。
	// 分段的 IndentDelta 相对所属夹注块的基础缩进。
	ExpandInJiazhu(text string) []Segment

	// PostprocessBlocks 在解析完成后对语义块做一次后处理。
	PostprocessBlocks(blocks []Block) []Block
}

// ParseContext 暴露行扫描现场，跨行命令据此自行收集并申报消耗的行数。
type ParseContext struct {
	Lines []string // 正文的全部行
	Index int      // 当前行下标
}

// Nop 是全部能力的空实现。
type Nop struct{}

func (Nop) TemplateMapping() map[string]string { return nil }

func (Nop) PreprocessLine(string) (string, bool) { return "", false }

func (Nop) ParseCommand(string, string, *ParseContext) ([]Block, int, bool) {
	return nil, 0, false
}

func (Nop) ExpandInJiazhu(text string) []Segment {
	return []Segment{{Text: text}}
}

func (Nop) PostprocessBlocks(blocks []Block) []Block { return blocks }
