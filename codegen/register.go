package codegen

import "github.com/lumenlang/lumen/errors"

// Register is one of the 52 x86-64 general-purpose register views, laid
// out in four contiguous rows of blockWidth registers: 64-bit (RAX…R15),
// 32-bit (EAX…R15D), 16-bit (AX…R15W), 8-bit (AL…R15B). Width conversion
// and promote/demote are row arithmetic — index division/offset by
// blockWidth — rather than a name lookup table.
type Register int

// blockWidth is the number of registers per width row: RAX through R15.
const blockWidth = 13

const (
	RAX Register = iota
	RCX
	RDX
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15

	EAX
	ECX
	EDX
	ESI
	EDI
	R8D
	R9D
	R10D
	R11D
	R12D
	R13D
	R14D
	R15D

	AX
	CX
	DX
	SI
	DI
	R8W
	R9W
	R10W
	R11W
	R12W
	R13W
	R14W
	R15W

	AL
	CL
	DL
	SIL
	DIL
	R8B
	R9B
	R10B
	R11B
	R12B
	R13B
	R14B
	R15B
)

var registerNames = [...]string{
	RAX: "rax", RCX: "rcx", RDX: "rdx", RSI: "rsi", RDI: "rdi",
	R8: "r8", R9: "r9", R10: "r10", R11: "r11", R12: "r12", R13: "r13", R14: "r14", R15: "r15",

	EAX: "eax", ECX: "ecx", EDX: "edx", ESI: "esi", EDI: "edi",
	R8D: "r8d", R9D: "r9d", R10D: "r10d", R11D: "r11d", R12D: "r12d", R13D: "r13d", R14D: "r14d", R15D: "r15d",

	AX: "ax", CX: "cx", DX: "dx", SI: "si", DI: "di",
	R8W: "r8w", R9W: "r9w", R10W: "r10w", R11W: "r11w", R12W: "r12w", R13W: "r13w", R14W: "r14w", R15W: "r15w",

	AL: "al", CL: "cl", DL: "dl", SIL: "sil", DIL: "dil",
	R8B: "r8b", R9B: "r9b", R10B: "r10b", R11B: "r11b", R12B: "r12b", R13B: "r13b", R14B: "r14b", R15B: "r15b",
}

// String renders the assembly-syntax register name, e.g. "rax", "eax".
func (r Register) String() string {
	if int(r) < 0 || int(r) >= len(registerNames) {
		return ""
	}
	return registerNames[r]
}

// AsRegister validates i as a register index in [RAX, R15B]; out-of-range
// indices are a codegen programming error, fatal like every other stage.
func AsRegister(i int) Register {
	if i < int(RAX) || i > int(R15B) {
		panic(errors.New(errors.InternalError, "Invalid register index", 0, ""))
	}
	return Register(i)
}

func (r Register) convertTo(row int) Register {
	i := int(r)
	if i/blockWidth == row {
		return r
	}
	return Register((i % blockWidth) + row*blockWidth)
}

// To64 returns this register's 64-bit view.
func (r Register) To64() Register { return r.convertTo(0) }

// To32 returns this register's 32-bit view.
func (r Register) To32() Register { return r.convertTo(1) }

// To16 returns this register's 16-bit view.
func (r Register) To16() Register { return r.convertTo(2) }

// To08 returns this register's 8-bit view.
func (r Register) To08() Register { return r.convertTo(3) }

// Promote returns the next wider view of this register. Unlike the
// original, which warns and returns the receiver unchanged when already
// 64-bit, this follows spec.md's literal wording and raises a fatal
// SizeError at the widest extreme.
func (r Register) Promote() Register {
	switch int(r) / blockWidth {
	case 0:
		panic(errors.New(errors.SizeError, "Register already 64bit", 0, r.String()))
	case 1:
		return r.To64()
	case 2:
		return r.To32()
	case 3:
		return r.To16()
	default:
		panic(errors.New(errors.InternalError, "Invalid register index", 0, ""))
	}
}

// Demote returns the next narrower view of this register, raising a fatal
// SizeError at the narrowest (8-bit) extreme — see Promote's note on the
// spec-vs-original discrepancy.
func (r Register) Demote() Register {
	switch int(r) / blockWidth {
	case 0:
		return r.To32()
	case 1:
		return r.To16()
	case 2:
		return r.To08()
	case 3:
		panic(errors.New(errors.SizeError, "Register already 8bit", 0, r.String()))
	default:
		panic(errors.New(errors.InternalError, "Invalid register index", 0, ""))
	}
}

// ForWidth returns the view of r sized to hold a value of the given byte
// width (1, 2, 4, or 8 — the only widths sizeof ever produces).
func (r Register) ForWidth(width int64) Register {
	switch width {
	case 1:
		return r.To08()
	case 2:
		return r.To16()
	case 4:
		return r.To32()
	default:
		return r.To64()
	}
}
