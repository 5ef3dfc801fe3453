//go:build llama

package model

// cgo link directives for the in-process llama runtime.
// - $ORIGIN rpath lets the loader find libllama.so next to the built binary (./bin).
// - -L${SRCDIR}/../../bin finds libllama.so at link time for the 'llama' variant.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
*/
import "C"
