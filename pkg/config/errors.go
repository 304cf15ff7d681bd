package config

import "errors"

var (
	// ErrNotLoaded 尚未加载配置
	ErrNotLoaded = errors.New("config not loaded, call Load first")

	// ErrNotFound 默认路径下未找到配置文件
	ErrNotFound = errors.New("no config file found")

	// ErrAlreadyWatching 已在监听
	ErrAlreadyWatching = errors.New("config already watched")
)
