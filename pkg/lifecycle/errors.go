package lifecycle

import "errors"

var (
	// ErrWorkerExists 当协程已存在时返回
	ErrWorkerExists = errors.New("worker already exists")

	// ErrShutdownTimeout 当退出超时时返回
	ErrShutdownTimeout = errors.New("shutdown timeout")

	// ErrAlreadyRunning 当管理器已在运行时返回
	ErrAlreadyRunning = errors.New("manager already running")
)
