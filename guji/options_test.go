package guji

import "testing"

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions("indent=2, first-indent=1")
	if err != nil {
		t.Fatalf("解析可选参数失败: %v", err)
	}
	if opts["indent"] != "2" || opts["first-indent"] != "1" {
		t.Fatalf("unexpected options: %#v", opts)
	}
}

func TestParseOptionsFlagOnly(t *testing.T) {
	opts, err := ParseOptions("无框")
	if err != nil {
		t.Fatalf("解析可选参数失败: %v", err)
	}
	if v, ok := opts["无框"]; !ok || v != "" {
		t.Fatalf("无值的键应映射为空字符串: %#v", opts)
	}
}

func TestParseOptionsNegative(t *testing.T) {
	opts, err := ParseOptions("indent=-1")
	if err != nil {
		t.Fatalf("解析可选参数失败: %v", err)
	}
	if IntOption(opts, "indent", 0) != -1 {
		t.Fatalf("unexpected indent: %#v", opts)
	}
}

func TestIntOptionDefault(t *testing.T) {
	opts := map[string]string{"indent": "abc"}
	if got := IntOption(opts, "indent", 3); got != 3 {
		t.Fatalf("非法整数应返回默认值, got %d", got)
	}
	if got := IntOption(opts, "missing", 5); got != 5 {
		t.Fatalf("缺失键应返回默认值, got %d", got)
	}
}
