package main

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/jacksmith/binder/internal/cli"
)

// clipboardWrite copies text to the system clipboard. Tests replace it.
var clipboardWrite = clipboard.WriteAll

// shareText copies text to the clipboard, or prints it to w when printOnly
// is set or no clipboard is available.
func shareText(w io.Writer, text string, printOnly bool) {
	if !printOnly {
		err := clipboardWrite(text)
		if err == nil {
			fmt.Fprintln(w, "Copied to the clipboard.")
			return
		}
		fmt.Fprintln(os.Stderr, cli.Yellow("clipboard unavailable, printing instead: "+err.Error()))
	}
	fmt.Fprint(w, text)
}
