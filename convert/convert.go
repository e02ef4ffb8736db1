// Package convert 串联解析、布局与生成三个阶段。
// 引擎自身不做任何 I/O，跨调用不保留状态，可在独立 goroutine 中并行转换多个文档。
package convert

import (
	"fmt"

	"github.com/gujitex/digitalize/digital"
	"github.com/gujitex/digitalize/guji"
	"github.com/gujitex/digitalize/layout"
)

// Options 配置一次转换。
type Options struct {
	// GridWidth 是每列字数，<=0 时取 layout.DefaultGridWidth。
	GridWidth int
	// Plugin 处理模板特有命令，nil 时使用 guji.Nop。
	Plugin guji.Plugin
}

// Stats 汇总一次转换的产出规模。
type Stats struct {
	// Blocks 按语义块变体名统计数量。
	Blocks map[string]int
	// Columns 是生成的列总数。
	Columns int
}

// Convert 执行 guji → guji-digital 的完整转换。
func Convert(content string, opts Options) (string, Stats, error) {
	plugin := opts.Plugin
	if plugin == nil {
		plugin = guji.Nop{}
	}

	doc, err := guji.Parse(content, plugin)
	if err != nil {
		return "", Stats{}, fmt.Errorf("解析 guji 文件失败: %w", err)
	}

	columns, err := layout.Build(doc.Blocks, layout.Options{
		GridWidth: opts.GridWidth,
		Plugin:    plugin,
	})
	if err != nil {
		return "", Stats{}, fmt.Errorf("布局计算失败: %w", err)
	}

	output := digital.Generate(doc.Preamble, doc.Preserved, columns, doc.Footer, plugin)

	stats := Stats{Blocks: make(map[string]int, 8), Columns: len(columns)}
	for _, b := range doc.Blocks {
		stats.Blocks[b.Kind()]++
	}
	return output, stats, nil
}
