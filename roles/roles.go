// Package roles builds calls against a Zodiac Roles modifier.
package roles

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Roles modifier methods used by the console.
//
//	allowTarget(uint16,address,uint8)
//	revokeTarget(uint16,address)
const modifierABI = `[
	{"type":"function","name":"allowTarget","stateMutability":"nonpayable","outputs":[],
	 "inputs":[{"name":"role","type":"uint16"},{"name":"targetAddress","type":"address"},{"name":"options","type":"uint8"}]},
	{"type":"function","name":"revokeTarget","stateMutability":"nonpayable","outputs":[],
	 "inputs":[{"name":"role","type":"uint16"},{"name":"targetAddress","type":"address"}]}
]`

var parsedABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(modifierABI))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// ExecutionOptions mirrors the modifier's ExecutionOptions enum
type ExecutionOptions uint8

const (
	ExecNone ExecutionOptions = iota
	ExecSend
	ExecDelegateCall
	ExecBoth
)

func (o ExecutionOptions) String() string {
	switch o {
	case ExecNone:
		return "none"
	case ExecSend:
		return "send"
	case ExecDelegateCall:
		return "delegatecall"
	case ExecBoth:
		return "both"
	}
	return "ExecutionOptions(" + strconv.Itoa(int(o)) + ")"
}

// ParseExecutionOptions accepts the enum's numeric value or its name
func ParseExecutionOptions(s string) (ExecutionOptions, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for o := ExecNone; o <= ExecBoth; o++ {
		if s == o.String() || s == strconv.Itoa(int(o)) {
			return o, nil
		}
	}
	return 0, fmt.Errorf("invalid execution options %q", s)
}

// PopulatedTransaction is an unsigned call: recipient plus calldata
type PopulatedTransaction struct {
	To   common.Address
	Data []byte
}

// Builder encodes modifier calls for one deployed modifier
type Builder struct {
	modifier common.Address
	abi      abi.ABI
}

// NewBuilder creates a Builder targeting the modifier at addr
func NewBuilder(addr common.Address) (*Builder, error) {
	if addr == (common.Address{}) {
		return nil, fmt.Errorf("roles modifier address is not set")
	}
	return &Builder{modifier: addr, abi: parsedABI}, nil
}

// Modifier returns the address calls are populated against
func (b *Builder) Modifier() common.Address { return b.modifier }

// Populate ABI-encodes method with args. No network access.
func (b *Builder) Populate(method string, args ...interface{}) (PopulatedTransaction, error) {
	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return PopulatedTransaction{}, fmt.Errorf("pack %s: %w", method, err)
	}
	return PopulatedTransaction{To: b.modifier, Data: data}, nil
}

// AllowTarget permits role to call target with the given options
func (b *Builder) AllowTarget(role uint16, target common.Address, opts ExecutionOptions) (PopulatedTransaction, error) {
	return b.Populate("allowTarget", role, target, uint8(opts))
}

// RevokeTarget removes target from role
func (b *Builder) RevokeTarget(role uint16, target common.Address) (PopulatedTransaction, error) {
	return b.Populate("revokeTarget", role, target)
}

// DecodedCall is a human readable view of modifier calldata
type DecodedCall struct {
	Method string
	Args   []interface{}
}

func (c DecodedCall) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Method + "(" + strings.Join(parts, ", ") + ")"
}

// DecodeCall reverses Populate for any method in the modifier ABI
func DecodeCall(data []byte) (DecodedCall, error) {
	if len(data) < 4 {
		return DecodedCall{}, fmt.Errorf("calldata too short: %d bytes", len(data))
	}
	method, err := parsedABI.MethodById(data[:4])
	if err != nil {
		return DecodedCall{}, err
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return DecodedCall{}, fmt.Errorf("unpack %s: %w", method.Name, err)
	}
	return DecodedCall{Method: method.Name, Args: args}, nil
}
