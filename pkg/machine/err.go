package machine

import (
	"errors"
	"fmt"

	"github.com/oisee/z80core/pkg/opcode"
)

var (
	ErrIllegalOpcode = errors.New("illegal opcode")
	ErrStepLimit     = errors.New("step limit reached")
	ErrHalted        = errors.New("halted")
)

// IllegalOpcodeError reports an encoding with no table entry.
type IllegalOpcodeError struct {
	PC     uint16
	Prefix opcode.Prefix
	Code   uint8
}

func (e *IllegalOpcodeError) Error() string {
	if e.Prefix == opcode.PrefixNone {
		return fmt.Sprintf("illegal opcode %02X at %04X", e.Code, e.PC)
	}
	return fmt.Sprintf("illegal opcode %02X %02X at %04X", uint8(e.Prefix), e.Code, e.PC)
}

func (e *IllegalOpcodeError) Is(err error) bool {
	return err == ErrIllegalOpcode
}
