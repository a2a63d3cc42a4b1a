package domain

// Config mirrors ~/.calc/config.yaml.
type Config struct {
	ConfigFormatVersion string          `yaml:"config_format_version"`
	LogLevel            string          `yaml:"log_level"`
	History             HistorySettings `yaml:"history"`
	Plugins             PluginSettings  `yaml:"plugins"`
	REPL                REPLSettings    `yaml:"repl"`
}

// HistorySettings configures calculation history persistence.
type HistorySettings struct {
	FilePath     string `yaml:"file_path"`
	Backend      string `yaml:"backend"`
	DisplayLimit int    `yaml:"display_limit"`
}

// PluginSettings configures plugin discovery.
type PluginSettings struct {
	Directory string `yaml:"directory"`
}

// REPLSettings controls the interactive shell.
type REPLSettings struct {
	Prompt string `yaml:"prompt"`
}
