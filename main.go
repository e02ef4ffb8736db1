// Command digitalize 把语义模式（guji.cls）的古籍排版文件转换为
// 布局模式（guji-digital）格式。文件读写与日志只发生在这一层，
// 转换引擎本身不做 I/O。
package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/gujitex/digitalize/convert"
	"github.com/gujitex/digitalize/guji"
	"github.com/gujitex/digitalize/plugins"
)

var cli struct {
	Input          string `name:"input" short:"i" required:"" type:"existingfile" help:"输入 guji TeX 文件"`
	Output         string `name:"output" short:"o" required:"" type:"path" help:"输出 guji-digital TeX 文件"`
	Plugin         string `name:"plugin" short:"p" help:"插件名（可用: ${plugins}）"`
	CharsPerColumn int    `name:"chars-per-column" default:"21" help:"每列字数"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("digitalize"),
		kong.Description("guji → guji-digital 通用转换引擎"),
		kong.Vars{"plugins": strings.Join(plugins.Names(), ", ")},
	)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	kctx.FatalIfErrorf(run(logger))
}

// run 串联插件加载、读入、转换与写出。
func run(logger *slog.Logger) error {
	var plugin guji.Plugin
	if cli.Plugin != "" {
		p, err := plugins.Lookup(cli.Plugin)
		if err != nil {
			return err
		}
		plugin = p
		logger.Info("已加载插件", "plugin", cli.Plugin)
	}

	raw, err := os.ReadFile(cli.Input)
	if err != nil {
		return fmt.Errorf("读取输入文件失败: %w", err)
	}
	content := string(raw)
	logger.Info("读取输入", "path", cli.Input, "chars", len([]rune(content)))

	output, stats, err := convert.Convert(content, convert.Options{
		GridWidth: cli.CharsPerColumn,
		Plugin:    plugin,
	})
	if err != nil {
		return err
	}

	kinds := make([]string, 0, len(stats.Blocks))
	for kind := range stats.Blocks {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		logger.Info("语义块统计", "type", kind, "count", stats.Blocks[kind])
	}
	logger.Info("转换完成", "columns", stats.Columns, "chars", len([]rune(output)))

	if err := os.WriteFile(cli.Output, []byte(output), 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	logger.Info("已写入", "path", cli.Output)
	return nil
}
