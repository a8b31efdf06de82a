package types

// CheckerConf 包含代理检查器的运行参数。
// 零值字段表示“未设置”，由调用方回退到默认值。
type CheckerConf struct {
	InputFile      string `ini:"input_file"`
	OutputFile     string `ini:"output_file"`
	Timeout        int    `ini:"timeout"` // 秒
	MaxConnections int    `ini:"max_connections"`
	TestURL        string `ini:"test_url"`
}

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
}

// Config 是项目的统一配置结构体
type Config struct {
	CheckerConf `ini:"checker"`
	LogConf     `ini:"log"`
}
