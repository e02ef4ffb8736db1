// Package plugins 维护插件名到实现的显式注册表（零反射）。
// 每个名字对应且仅对应一个实现，未注册的名字视为加载失败。
package plugins

import (
	"fmt"
	"sort"

	"github.com/gujitex/digitalize/guji"
	"github.com/gujitex/digitalize/plugins/sikumulu"
)

var factories = map[string]func() guji.Plugin{
	// 四库全书简明目录
	"sikumulu": func() guji.Plugin { return sikumulu.New() },
}

// Lookup 按名字构造插件。
func Lookup(name string) (guji.Plugin, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("未注册的插件 %q（可用插件: %v）", name, Names())
	}
	return factory(), nil
}

// Names 返回已注册的插件名，按字典序。
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
