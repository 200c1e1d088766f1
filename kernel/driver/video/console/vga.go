// Package console implements the text-mode console device the terminal
// renders into.
package console

import (
	"reflect"
	"unsafe"

	"github.com/leolorenzoluis/goose/kernel/cpu"
)

// Attr describes a foreground/background color attribute pair.
type Attr uint8

// The 16 standard text-mode colors.
const (
	Black Attr = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGrey
	DarkGrey
	LightBlue
	LightGreen
	LightCyan
	LightRed
	LightMagenta
	Yellow
	White
)

// ScrollDir describes a scroll direction.
type ScrollDir uint8

// Supported scroll directions.
const (
	Up ScrollDir = iota
	Down
)

const (
	clearChar = byte(' ')

	// CRT controller ports and the cursor location register indices.
	crtcCommandPort    = uint16(0x3D4)
	crtcDataPort       = uint16(0x3D5)
	crtcCursorHighByte = uint8(14)
	crtcCursorLowByte  = uint8(15)

	// Attribute controller ports used to disable the blink attribute.
	attrWritePort   = uint16(0x3C0)
	attrReadPort    = uint16(0x3C1)
	inputStatusPort = uint16(0x3DA)
)

var (
	// portWriteByteFn is mocked by tests and is automatically inlined by the compiler.
	portWriteByteFn = cpu.PortWriteByte

	// portReadByteFn is mocked by tests and is automatically inlined by the compiler.
	portReadByteFn = cpu.PortReadByte
)

// Vga implements an EGA-compatible text console. Each cell of the
// framebuffer is a 16-bit value: the low byte is the character, the high
// byte packs the foreground color in its low nibble and the background color
// in its high nibble.
type Vga struct {
	width  uint16
	height uint16

	fb []uint16
}

// Init sets up the console to use the framebuffer mapped at fbAddr.
func (cons *Vga) Init(width, height uint16, fbAddr uintptr) {
	cons.width = width
	cons.height = height

	cons.fb = *(*[]uint16)(unsafe.Pointer(&reflect.SliceHeader{
		Len:  int(width) * int(height),
		Cap:  int(width) * int(height),
		Data: fbAddr,
	}))
}

// DisableBlink turns off the blink attribute so that all 16 colors are
// usable as backgrounds.
func (cons *Vga) DisableBlink() {
	// Reading the input status port resets the attribute controller's
	// address/data flip-flop so the index write below is not misparsed.
	portReadByteFn(inputStatusPort)
	portWriteByteFn(attrWritePort, 0x30)
	portReadByteFn(attrReadPort)
	portWriteByteFn(attrWritePort, 0x30)
}

// Dimensions returns the console width and height in characters.
func (cons *Vga) Dimensions() (uint16, uint16) {
	return cons.width, cons.height
}

// Clear clears the specified rectangular region.
func (cons *Vga) Clear(x, y, width, height uint16) {
	var (
		clr                  = uint16(Black)<<12 | uint16(clearChar)
		rowOffset, colOffset uint16
	)

	// clip the rectangle to the console bounds
	if x >= cons.width {
		x = cons.width
	}
	if y >= cons.height {
		y = cons.height
	}
	if x+width > cons.width {
		width = cons.width - x
	}
	if y+height > cons.height {
		height = cons.height - y
	}

	rowOffset = (y * cons.width) + x
	for ; height > 0; height, rowOffset = height-1, rowOffset+cons.width {
		for colOffset = rowOffset; colOffset < rowOffset+width; colOffset++ {
			cons.fb[colOffset] = clr
		}
	}
}

// Scroll the console contents the specified number of lines in the
// specified direction.
func (cons *Vga) Scroll(dir ScrollDir, lines uint16) {
	if lines == 0 || lines > cons.height {
		return
	}

	var i uint16
	offset := lines * cons.width

	switch dir {
	case Up:
		for ; i < (cons.height-lines)*cons.width; i++ {
			cons.fb[i] = cons.fb[i+offset]
		}
	case Down:
		for i = cons.height*cons.width - 1; i >= lines*cons.width; i-- {
			cons.fb[i] = cons.fb[i-offset]
		}
	}
}

// Write outputs the specified char with the specified attribute at location
// (x, y).
func (cons *Vga) Write(ch byte, attr Attr, x, y uint16) {
	if x >= cons.width || y >= cons.height {
		return
	}

	cons.fb[(y*cons.width)+x] = (uint16(attr) << 8) | uint16(ch)
}

// SetCursor moves the hardware cursor to location (x, y).
func (cons *Vga) SetCursor(x, y uint16) {
	if x >= cons.width || y >= cons.height {
		return
	}

	pos := y*cons.width + x
	portWriteByteFn(crtcCommandPort, crtcCursorHighByte)
	portWriteByteFn(crtcDataPort, uint8(pos>>8))
	portWriteByteFn(crtcCommandPort, crtcCursorLowByte)
	portWriteByteFn(crtcDataPort, uint8(pos&0xFF))
}
