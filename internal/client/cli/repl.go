package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	New(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Sort(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Submit(ctx context.Context, args []string) error
	Publish(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Confirm(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  new [code]            write a new note (optional 6-9 digit code)
  edit <code>           rewrite a note
  show <code>           print a note
  (l)ist [field]        list notes by title, date or content
  sort <field>          remember the list order
  search <text>         find notes by title or text
  delete <code>...      delete notes
  share <code>          share a note (asks for a captcha)
  submit                retry the captcha for the note being shared
  publish               write a new note and share it at once
  open <code|address>   open a note, fetching it if it is not local
  export <code>...|all  save notes as a JSON bundle
  import <file>         load notes from a JSON bundle
  confirm on|off        ask before deleting
  exit | quit           leave the program`

// runREPL starts a read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on a with the remaining tokens. Unknown commands
// are reported back to the user. The loop exits on EOF or when the user
// types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("nk %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help", "?":
			printlnFn(helpText)
		case "new":
			_ = a.New(ctx, args)
		case "edit":
			_ = a.Edit(ctx, args)
		case "show":
			_ = a.Show(ctx, args)
		case "l", "list":
			_ = a.List(ctx, args)
		case "sort":
			_ = a.Sort(ctx, args)
		case "search":
			_ = a.Search(ctx, args)
		case "delete", "rm":
			_ = a.Delete(ctx, args)
		case "share":
			_ = a.Share(ctx, args)
		case "submit":
			_ = a.Submit(ctx, args)
		case "publish":
			_ = a.Publish(ctx, args)
		case "open":
			_ = a.Open(ctx, args)
		case "export":
			_ = a.Export(ctx, args)
		case "import":
			_ = a.Import(ctx, args)
		case "confirm":
			_ = a.Confirm(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
