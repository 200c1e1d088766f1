// Package hal glues the console device and the terminal together.
package hal

import (
	"github.com/leolorenzoluis/goose/kernel/driver/tty"
	"github.com/leolorenzoluis/goose/kernel/driver/video/console"
	"github.com/leolorenzoluis/goose/kernel/kfmt"
)

// textFramebufferAddr is the identity-mapped alias of the text-mode
// framebuffer at physical 0xB8000.
const textFramebufferAddr = uintptr(0xC00B8000)

var (
	vgaConsole = &console.Vga{}

	// ActiveTerminal points to the currently active terminal.
	ActiveTerminal = &tty.Vt{}
)

// InitTerminal attaches the terminal to the text-mode console and redirects
// kernel log output to it, flushing anything logged before this point.
func InitTerminal() {
	vgaConsole.Init(80, 25, textFramebufferAddr)
	vgaConsole.DisableBlink()

	ActiveTerminal.AttachTo(vgaConsole)
	ActiveTerminal.Clear()

	kfmt.SetOutputSink(ActiveTerminal)
}
