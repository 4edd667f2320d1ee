package vm

import (
	"fmt"
	"strings"
)

// traceInstruction prints the stack followed by the instruction about to run.
func (vm *VM) traceInstruction(offset int) {
	var sb strings.Builder
	sb.WriteString("          ")
	for i := 0; i < vm.sp; i++ {
		sb.WriteString("[ ")
		sb.WriteString(vm.stack[i].String())
		sb.WriteString(" ]")
	}
	stackLine := sb.String()
	instr, _ := vm.chunk.FormatInstruction(offset)

	if vm.traceOut != nil {
		fmt.Fprintln(vm.traceOut, stackLine)
		fmt.Fprintln(vm.traceOut, instr)
	}
	log.Debugf("%s sp=%d", instr, vm.sp)
}
