package guji

// 该文件定义语义块与分段类型。语义块由 Parse 产出、layout 消费，
// 除插件的 PostprocessBlocks 外不再被修改。

// Block 表示一个语义块。变体集合是封闭的（标记方法不可在包外实现），
// layout 与 digital 据此做穷尽的类型分支。
type Block interface {
	// Kind 返回变体名，用于统计与日志。
	Kind() string

	isBlock()
}

// Chapter 是卷/部级别的章标题。
type Chapter struct {
	Title string
}

// Newpage 是显式换页。
type Newpage struct{}

// Yinzhang 是印章命令，Raw 保存规范化后的整条命令。
type Yinzhang struct {
	Raw string
}

// Text 是一整列的普通文字。
type Text struct {
	Text   string
	Indent int
}

// Tiaomu 是带层级的条目，层级即缩进。
type Tiaomu struct {
	Level int
	Text  string
}

// Paragraph 是需要按网格宽度切分的段落。
// FirstIndent 仅作用于切出的第一列。
type Paragraph struct {
	Text        string
	Indent      int
	FirstIndent int
}

// Jiazhu 是夹注（双行小字注文）。Segments 为空时整块按 Indent 排版，
// 否则按分段各自的缩进排版。
type Jiazhu struct {
	Text     string
	Indent   int
	Segments []Segment
}

// Segment 是夹注文字流中的一个分段。IndentDelta 相对所属块的基础缩进，
// ForceBreak 表示该段必须另起一个小列。
type Segment struct {
	Text        string
	IndentDelta int
	ForceBreak  bool
}

func (Chapter) Kind() string   { return "chapter" }
func (Newpage) Kind() string   { return "newpage" }
func (Yinzhang) Kind() string  { return "yinzhang" }
func (Text) Kind() string      { return "text" }
func (Tiaomu) Kind() string    { return "tiaomu" }
func (Paragraph) Kind() string { return "paragraph" }
func (Jiazhu) Kind() string    { return "jiazhu" }

func (Chapter) isBlock()   {}
func (Newpage) isBlock()   {}
func (Yinzhang) isBlock()  {}
func (Text) isBlock()      {}
func (Tiaomu) isBlock()    {}
func (Paragraph) isBlock() {}
func (Jiazhu) isBlock()    {}
