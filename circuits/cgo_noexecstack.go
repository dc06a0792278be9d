//go:build cgo

// Linking gnark-crypto assembly objects without this flag makes the linker
// warn about an executable stack (fr_asm.o has no .note.GNU-stack section).

package circuits

/*
#cgo LDFLAGS: -Wl,-z,noexecstack
*/
import "C"
