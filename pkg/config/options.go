package config

import "time"

// Option 配置管理器选项
type Option func(*options)

type options struct {
	appName          string
	envPrefix        string
	dotenvFiles      []string
	serializer       Serializer
	forceFormat      Serializer
	supportedFormats []Serializer
	defaultPaths     []string
	debounce         time.Duration
	onError          func(error)
}

func defaultOptions() options {
	return options{
		appName:          "app",
		serializer:       &YAMLSerializer{},
		supportedFormats: []Serializer{&YAMLSerializer{}, &JSONSerializer{}, &INISerializer{}},
		defaultPaths: []string{
			"./{{.AppName}}",
			"{{.ExecDir}}/{{.AppName}}",
			"/etc/{{.AppName}}",
		},
		debounce: 500 * time.Millisecond,
		onError:  func(error) {},
	}
}

// WithAppName 设置应用名称（用于默认配置文件名）
func WithAppName(name string) Option {
	return func(o *options) {
		o.appName = name
	}
}

// WithEnvPrefix 设置环境变量前缀，例如 VENDKIT_
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithDotenv 加载 .env 文件（不存在时忽略），已存在的环境变量不会被覆盖
func WithDotenv(files ...string) Option {
	return func(o *options) {
		if len(files) == 0 {
			files = []string{".env"}
		}
		o.dotenvFiles = files
	}
}

// WithSerializer 设置默认序列化器（无后缀文件使用）
func WithSerializer(s Serializer) Option {
	return func(o *options) {
		o.serializer = s
	}
}

// WithForceFormat 强制指定配置格式（无视文件后缀）
func WithForceFormat(s Serializer) Option {
	return func(o *options) {
		o.forceFormat = s
	}
}

// WithDefaultPaths 设置默认配置文件查找路径模板
func WithDefaultPaths(paths ...string) Option {
	return func(o *options) {
		o.defaultPaths = paths
	}
}

// WithConfigFormats 设置支持的配置格式列表
func WithConfigFormats(formats ...Serializer) Option {
	return func(o *options) {
		o.supportedFormats = formats
	}
}

// WithDebounce 设置文件监听的防抖间隔
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithErrorHandler 设置自动重载失败时的回调
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		if fn != nil {
			o.onError = fn
		}
	}
}
