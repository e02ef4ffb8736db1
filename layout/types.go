package layout

// 该文件定义列数据变体，布局结果由 digital 消费。

// Column 表示一列网格数据。变体集合是封闭的，生成阶段据此做穷尽分支。
type Column interface{ isColumn() }

// Chapter 列在生成时被提升为章标题，本身不占网格。
type Chapter struct {
	Title string
}

// Newpage 是显式换页。
type Newpage struct{}

// Yinzhang 原样透传印章命令。
type Yinzhang struct {
	Raw string
}

// Single 是一整列宽的文字。
type Single struct {
	Text   string
	Indent int
}

// Dual 是两个半宽小列组成的大列，右小列先读。
// 大列缩进取右小列的缩进；RightIndent/LeftIndent 仅在对应小列
// 需要显式标注（与 Indent 不同）时非 nil。
type Dual struct {
	Indent      int
	Right       string
	Left        string
	RightIndent *int
	LeftIndent  *int
}

func (Chapter) isColumn()  {}
func (Newpage) isColumn()  {}
func (Yinzhang) isColumn() {}
func (Single) isColumn()   {}
func (Dual) isColumn()     {}
