package layout

import "github.com/gujitex/digitalize/guji"

// DefaultGridWidth 是每列的默认字数（缩进从中扣除）。
const DefaultGridWidth = 21

// Options 配置布局阶段：网格宽度与插件。
type Options struct {
	GridWidth int
	Plugin    guji.Plugin
}

func (o Options) gridWidth() int {
	if o.GridWidth > 0 {
		return o.GridWidth
	}
	return DefaultGridWidth
}

func (o Options) plugin() guji.Plugin {
	if o.Plugin != nil {
		return o.Plugin
	}
	return guji.Nop{}
}
