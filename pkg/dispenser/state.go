package dispenser

import (
	"fmt"
	"strings"
)

// State 售货机运行状态，集合封闭
type State uint8

const (
	// NoToken 未投币（初始状态）
	NoToken State = iota
	// TokenHeld 已投币，等待出货或退币
	TokenHeld
	// Depleted 库存耗尽（终止状态，吸收所有操作）
	Depleted
)

var stateNames = [...]string{
	NoToken:   "NoToken",
	TokenHeld: "TokenHeld",
	Depleted:  "Depleted",
}

// States 返回全部状态
func States() []State {
	return []State{NoToken, TokenHeld, Depleted}
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// IsTerminal 是否为终止状态
func (s State) IsTerminal() bool {
	return s == Depleted
}

func (s State) valid() bool {
	return int(s) < len(stateNames)
}

// Operation 调用方可发起的操作
type Operation uint8

const (
	InsertToken Operation = iota
	EjectToken
	Dispense
)

var operationNames = [...]string{
	InsertToken: "InsertToken",
	EjectToken:  "EjectToken",
	Dispense:    "Dispense",
}

var operationAliases = map[string]Operation{
	"inserttoken": InsertToken,
	"insert":      InsertToken,
	"ejecttoken":  EjectToken,
	"eject":       EjectToken,
	"dispense":    Dispense,
}

// Operations 返回全部操作
func Operations() []Operation {
	return []Operation{InsertToken, EjectToken, Dispense}
}

func (o Operation) String() string {
	if int(o) < len(operationNames) {
		return operationNames[o]
	}
	return fmt.Sprintf("Operation(%d)", uint8(o))
}

func (o Operation) valid() bool {
	return int(o) < len(operationNames)
}

// ParseOperation 解析操作名，大小写不敏感，支持 insert/eject/dispense 简写
func ParseOperation(s string) (Operation, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "", "-", "").Replace(key)
	if op, ok := operationAliases[key]; ok {
		return op, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

// RejectReason 操作被拒绝的原因
type RejectReason uint8

const (
	ReasonNone RejectReason = iota
	AlreadyHasToken
	NoTokenPresent
	MachineDepleted
)

var reasonNames = [...]string{
	ReasonNone:      "None",
	AlreadyHasToken: "AlreadyHasToken",
	NoTokenPresent:  "NoTokenPresent",
	MachineDepleted: "MachineDepleted",
}

func (r RejectReason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("RejectReason(%d)", uint8(r))
}

// Err 返回拒绝原因对应的哨兵错误，ReasonNone 返回 nil
func (r RejectReason) Err() error {
	switch r {
	case AlreadyHasToken:
		return ErrAlreadyHasToken
	case NoTokenPresent:
		return ErrNoTokenPresent
	case MachineDepleted:
		return ErrMachineDepleted
	}
	return nil
}
