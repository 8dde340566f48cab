// Package format renders tool-result JSON for the CLI collaborator:
// pretty-printed on a terminal, raw otherwise, with errors following the
// exit-code and stream conventions of the external interface.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether w is a terminal file descriptor. Non-*os.File
// writers (buffers, pipes under test) are never terminals.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Result writes v to w: pretty-printed JSON when w is a terminal, a
// single compact JSON line otherwise.
func Result(w io.Writer, v any) error {
	if IsTerminal(w) {
		body, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(body))
		return err
	}
	return json.NewEncoder(w).Encode(v)
}

// Error reports err on stderr and, when stdout is not a terminal, also
// writes the {"error": "..."} body to stdout so non-interactive callers
// can parse the failure the same way they parse a success result.
func Error(stderr, stdout io.Writer, err error) {
	fmt.Fprintln(stderr, "error:", err)
	if !IsTerminal(stdout) {
		json.NewEncoder(stdout).Encode(map[string]string{"error": err.Error()})
	}
}
