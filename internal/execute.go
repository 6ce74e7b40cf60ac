package internal

import "github.com/retroenv/retrogolib/log"

// execute runs a decoded instruction. PC already points at the next
// instruction. An error means nothing was modified apart from what the
// caller restores.
func (vm *C8VM) execute(ins Instruction) error {
	x, y := ins.X, ins.Y

	switch ins.Kind {
	case KindCLS:
		vm.pixels.clear()
		vm.drawFlag = true

	case KindRET:
		addr, ok := vm.stack.pop()
		if !ok {
			vm.logger.Debug("Return with empty stack ignored", log.Hex("pc", vm.pc-2))
			return nil
		}
		vm.pc = addr

	case KindJP:
		vm.pc = ins.NNN

	case KindCALL:
		if err := vm.stack.push(vm.pc); err != nil {
			return err
		}
		vm.pc = ins.NNN

	case KindSEByte:
		if vm.regV[x] == ins.KK {
			vm.pc += 2
		}

	case KindSNEByte:
		if vm.regV[x] != ins.KK {
			vm.pc += 2
		}

	case KindSEReg:
		if vm.regV[x] == vm.regV[y] {
			vm.pc += 2
		}

	case KindLDByte:
		vm.regV[x] = ins.KK

	case KindADDByte:
		vm.regV[x] += ins.KK

	case KindLDReg:
		vm.regV[x] = vm.regV[y]

	case KindOR:
		vm.regV[x] |= vm.regV[y]
		vm.resetFlag()

	case KindAND:
		vm.regV[x] &= vm.regV[y]
		vm.resetFlag()

	case KindXOR:
		vm.regV[x] ^= vm.regV[y]
		vm.resetFlag()

	case KindADDReg:
		sum := uint16(vm.regV[x]) + uint16(vm.regV[y])
		vm.setResult(x, uint8(sum), sum > 0xFF)

	case KindSUB:
		vx, vy := vm.regV[x], vm.regV[y]
		vm.setResult(x, vx-vy, vx >= vy)

	case KindSUBN:
		vx, vy := vm.regV[x], vm.regV[y]
		vm.setResult(x, vy-vx, vy >= vx)

	case KindSHR:
		v := vm.shiftSource(x, y)
		vm.setResult(x, v>>1, v&0x01 == 0x01)

	case KindSHL:
		v := vm.shiftSource(x, y)
		vm.setResult(x, v<<1, v&0x80 == 0x80)

	case KindSNEReg:
		if vm.regV[x] != vm.regV[y] {
			vm.pc += 2
		}

	case KindLDI:
		vm.regI = ins.NNN

	case KindJPV0:
		offset := vm.regV[0]
		if vm.quirks.JumpUsesVX {
			offset = vm.regV[x]
		}
		vm.pc = ins.NNN + uint16(offset)

	case KindRND:
		vm.regV[x] = vm.randomByte() & ins.KK

	case KindDRW:
		return vm.drawSprite(vm.regV[x], vm.regV[y], ins.N)

	case KindSKP:
		if vm.keypad.pressed(keyIndex(vm.regV[x])) {
			vm.pc += 2
		}

	case KindSKNP:
		if !vm.keypad.pressed(keyIndex(vm.regV[x])) {
			vm.pc += 2
		}

	case KindLDVxDT:
		vm.regV[x] = vm.timers.Delay

	case KindLDVxK:
		vm.waitReg = x
		vm.state = StateWaitingForKey

	case KindLDDTVx:
		vm.timers.Delay = vm.regV[x]

	case KindLDSTVx:
		vm.timers.Sound = vm.regV[x]

	case KindADDIVx:
		vm.regI += uint16(vm.regV[x])

	case KindLDFVx:
		vm.regI = vm.fontBase + uint16(vm.regV[x]&0xF)*glyphSize

	case KindLDBVx:
		v := vm.regV[x]
		return vm.memory.write(vm.regI, v/100, (v/10)%10, v%10)

	case KindLDIVx:
		if err := vm.memory.write(vm.regI, vm.regV[:x+1]...); err != nil {
			return err
		}
		vm.advanceIndex(x)

	case KindLDVxI:
		if err := vm.memory.checkRange(vm.regI, int(x)+1); err != nil {
			return err
		}
		copy(vm.regV[:x+1], vm.memory[vm.regI:])
		vm.advanceIndex(x)

	default:
		vm.unknownOpcodes++
		vm.logger.Warn("Unknown opcode skipped", log.Hex("pc", vm.pc-2), log.Hex("opcode", ins.Opcode))
	}
	return nil
}

// setResult writes an arithmetic result followed by its flag, so that
// VF holds the flag when X is F.
func (vm *C8VM) setResult(x, result uint8, flag bool) {
	vm.regV[x] = result
	if flag {
		vm.regV[0xF] = 1
	} else {
		vm.regV[0xF] = 0
	}
}

func (vm *C8VM) resetFlag() {
	if vm.quirks.VFReset {
		vm.regV[0xF] = 0
	}
}

func (vm *C8VM) shiftSource(x, y uint8) uint8 {
	if vm.quirks.ShiftUsesVY {
		return vm.regV[y]
	}
	return vm.regV[x]
}

func (vm *C8VM) advanceIndex(x uint8) {
	if vm.quirks.IncrementIndex {
		vm.regI += uint16(x) + 1
	}
}

// keyIndex clamps a register value to the highest key
func keyIndex(v uint8) Key {
	if v > 0xF {
		return 0xF
	}
	return Key(v)
}

// drawSprite XORs an n byte sprite from memory at I onto the display at (vx, vy).
// VF is set when any lit pixel gets switched off.
func (vm *C8VM) drawSprite(vx, vy, n uint8) error {
	if err := vm.memory.checkRange(vm.regI, int(n)); err != nil {
		return err
	}

	vm.regV[0xF] = 0
	originX, originY := int(vx), int(vy)
	if vm.quirks.ClipSprites {
		originX %= ScreenWidth
		originY %= ScreenHeight
	}

	for row := range int(n) {
		spriteByte := vm.memory[int(vm.regI)+row]
		py := originY + row
		if vm.quirks.ClipSprites && py >= ScreenHeight {
			break
		}

		for col := range 8 {
			if spriteByte&(0x80>>col) == 0 {
				continue
			}
			px := originX + col
			if vm.quirks.ClipSprites && px >= ScreenWidth {
				break
			}
			if vm.pixels.toggle(px, py) {
				vm.regV[0xF] = 1
			}
		}
	}
	vm.drawFlag = true
	return nil
}
