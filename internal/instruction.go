package internal

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Kind identifies a decoded instruction
type Kind uint8

// Instruction kinds, one per handler
const (
	KindUnknown Kind = iota
	KindCLS          // 00E0
	KindRET          // 00EE
	KindJP           // 1NNN
	KindCALL         // 2NNN
	KindSEByte       // 3XKK
	KindSNEByte      // 4XKK
	KindSEReg        // 5XY0
	KindLDByte       // 6XKK
	KindADDByte      // 7XKK
	KindLDReg        // 8XY0
	KindOR           // 8XY1
	KindAND          // 8XY2
	KindXOR          // 8XY3
	KindADDReg       // 8XY4
	KindSUB          // 8XY5
	KindSHR          // 8XY6
	KindSUBN         // 8XY7
	KindSHL          // 8XYE
	KindSNEReg       // 9XY0
	KindLDI          // ANNN
	KindJPV0         // BNNN
	KindRND          // CXKK
	KindDRW          // DXYN
	KindSKP          // EX9E
	KindSKNP         // EXA1
	KindLDVxDT       // FX07
	KindLDVxK        // FX0A
	KindLDDTVx       // FX15
	KindLDSTVx       // FX18
	KindADDIVx       // FX1E
	KindLDFVx        // FX29
	KindLDBVx        // FX33
	KindLDIVx        // FX55
	KindLDVxI        // FX65
)

// Instruction is a decoded opcode with all operand fields extracted
type Instruction struct {
	Kind   Kind
	Opcode uint16
	X      uint8  // the lower 4 bits of the high byte of the instruction
	Y      uint8  // the upper 4 bits of the low byte of the instruction
	N      uint8  // the lowest 4 bits of the instruction
	KK     uint8  // the lowest 8 bits of the instruction
	NNN    uint16 // the lowest 12 bits of the instruction
}

// Decode splits an opcode into its fields and resolves the instruction kind.
// Opcodes outside the CHIP-8 set decode to KindUnknown.
func Decode(opcode uint16) Instruction {
	ins := Instruction{
		Opcode: opcode,
		X:      uint8(opcode>>8) & 0xF,
		Y:      uint8(opcode>>4) & 0xF,
		N:      uint8(opcode) & 0xF,
		KK:     uint8(opcode),
		NNN:    opcode & 0x0FFF,
	}
	ins.Kind = decodeKind(ins)
	return ins
}

func decodeKind(ins Instruction) Kind {
	switch ins.Opcode & 0xF000 { // Compare against the first 4 bits of the instruction only
	case 0x0000:
		switch ins.Opcode {
		case 0x00E0:
			return KindCLS
		case 0x00EE:
			return KindRET
		}
	case 0x1000:
		return KindJP
	case 0x2000:
		return KindCALL
	case 0x3000:
		return KindSEByte
	case 0x4000:
		return KindSNEByte
	case 0x5000:
		if ins.N == 0 {
			return KindSEReg
		}
	case 0x6000:
		return KindLDByte
	case 0x7000:
		return KindADDByte
	case 0x8000:
		switch ins.N {
		case 0x0:
			return KindLDReg
		case 0x1:
			return KindOR
		case 0x2:
			return KindAND
		case 0x3:
			return KindXOR
		case 0x4:
			return KindADDReg
		case 0x5:
			return KindSUB
		case 0x6:
			return KindSHR
		case 0x7:
			return KindSUBN
		case 0xE:
			return KindSHL
		}
	case 0x9000:
		if ins.N == 0 {
			return KindSNEReg
		}
	case 0xA000:
		return KindLDI
	case 0xB000:
		return KindJPV0
	case 0xC000:
		return KindRND
	case 0xD000:
		return KindDRW
	case 0xE000:
		switch ins.KK {
		case 0x9E:
			return KindSKP
		case 0xA1:
			return KindSKNP
		}
	case 0xF000:
		switch ins.KK {
		case 0x07:
			return KindLDVxDT
		case 0x0A:
			return KindLDVxK
		case 0x15:
			return KindLDDTVx
		case 0x18:
			return KindLDSTVx
		case 0x1E:
			return KindADDIVx
		case 0x29:
			return KindLDFVx
		case 0x33:
			return KindLDBVx
		case 0x55:
			return KindLDIVx
		case 0x65:
			return KindLDVxI
		}
	}
	return KindUnknown
}

// String returns the instruction in assembler notation, for example "LD V1, 0x2A".
func (ins Instruction) String() string {
	vx := fmt.Sprintf("V%X", ins.X)
	vy := fmt.Sprintf("V%X", ins.Y)
	kk := fmt.Sprintf("0x%02X", ins.KK)
	nnn := fmt.Sprintf("0x%03X", ins.NNN)

	var name string
	var args []string
	switch ins.Kind {
	case KindCLS:
		name = chip8.ClsName
	case KindRET:
		name = chip8.RetName
	case KindJP:
		name, args = chip8.JpName, []string{nnn}
	case KindCALL:
		name, args = chip8.CallName, []string{nnn}
	case KindSEByte:
		name, args = chip8.SeName, []string{vx, kk}
	case KindSNEByte:
		name, args = chip8.SneName, []string{vx, kk}
	case KindSEReg:
		name, args = chip8.SeName, []string{vx, vy}
	case KindLDByte:
		name, args = chip8.LdName, []string{vx, kk}
	case KindADDByte:
		name, args = chip8.AddName, []string{vx, kk}
	case KindLDReg:
		name, args = chip8.LdName, []string{vx, vy}
	case KindOR:
		name, args = chip8.OrName, []string{vx, vy}
	case KindAND:
		name, args = chip8.AndName, []string{vx, vy}
	case KindXOR:
		name, args = chip8.XorName, []string{vx, vy}
	case KindADDReg:
		name, args = chip8.AddName, []string{vx, vy}
	case KindSUB:
		name, args = chip8.SubName, []string{vx, vy}
	case KindSHR:
		name, args = chip8.ShrName, []string{vx, vy}
	case KindSUBN:
		name, args = chip8.SubnName, []string{vx, vy}
	case KindSHL:
		name, args = chip8.ShlName, []string{vx, vy}
	case KindSNEReg:
		name, args = chip8.SneName, []string{vx, vy}
	case KindLDI:
		name, args = chip8.LdName, []string{"I", nnn}
	case KindJPV0:
		name, args = chip8.JpName, []string{"V0", nnn}
	case KindRND:
		name, args = chip8.RndName, []string{vx, kk}
	case KindDRW:
		name, args = chip8.DrwName, []string{vx, vy, fmt.Sprintf("%d", ins.N)}
	case KindSKP:
		name, args = chip8.SkpName, []string{vx}
	case KindSKNP:
		name, args = chip8.SknpName, []string{vx}
	case KindLDVxDT:
		name, args = chip8.LdName, []string{vx, "DT"}
	case KindLDVxK:
		name, args = chip8.LdName, []string{vx, "K"}
	case KindLDDTVx:
		name, args = chip8.LdName, []string{"DT", vx}
	case KindLDSTVx:
		name, args = chip8.LdName, []string{"ST", vx}
	case KindADDIVx:
		name, args = chip8.AddName, []string{"I", vx}
	case KindLDFVx:
		name, args = chip8.LdName, []string{"F", vx}
	case KindLDBVx:
		name, args = chip8.LdName, []string{"B", vx}
	case KindLDIVx:
		name, args = chip8.LdName, []string{"[I]", vx}
	case KindLDVxI:
		name, args = chip8.LdName, []string{vx, "[I]"}
	default:
		return fmt.Sprintf("DW 0x%04X", ins.Opcode)
	}

	name = strings.ToUpper(name)
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, ", ")
}
