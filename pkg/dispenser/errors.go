package dispenser

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyHasToken 已投币时再次投币
	ErrAlreadyHasToken = errors.New("token already inserted")

	// ErrNoTokenPresent 未投币时退币或出货
	ErrNoTokenPresent = errors.New("no token present")

	// ErrMachineDepleted 库存耗尽后的任何操作
	ErrMachineDepleted = errors.New("machine depleted")

	// ErrNegativeInventory 初始库存为负数
	ErrNegativeInventory = errors.New("inventory must be non-negative")

	// ErrUnknownOperation 无法识别的操作名
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrQueueClosed 队列已关闭
	ErrQueueClosed = errors.New("dispenser queue closed")
)

// InvariantError 内部不变量被破坏，属于程序缺陷而非用户输入错误，以panic抛出
type InvariantError struct {
	Op        Operation
	From      State
	To        State
	Inventory int
	Detail    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("dispenser invariant violated: %s (op=%s from=%s to=%s inventory=%d)",
		e.Detail, e.Op, e.From, e.To, e.Inventory)
}
