package collector

import "io"

// InputKind tells pipe and command inputs apart.
type InputKind int

const (
	InputPipe InputKind = iota
	InputCommand
)

func (k InputKind) String() string {
	if k == InputCommand {
		return "command"
	}
	return "pipe"
}

// Input is the source of a collection: either a reader or a shell command
// line.
type Input struct {
	kind InputKind
	r    io.Reader
	line string
}

// Pipe returns an input that reads r to its end.
func Pipe(r io.Reader) Input { return Input{kind: InputPipe, r: r} }

// Command returns an input that runs line through the shell.
func Command(line string) Input { return Input{kind: InputCommand, line: line} }

// Kind returns the input kind.
func (in Input) Kind() InputKind { return in.kind }

// Reader returns the pipe reader, or nil for a command.
func (in Input) Reader() io.Reader { return in.r }

// Line returns the command line, or "" for a pipe.
func (in Input) Line() string { return in.line }
