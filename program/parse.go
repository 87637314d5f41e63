package program

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/sarchlab/duet/instr"
)

var (
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
	ErrArity           = errors.New("wrong number of operands")
	ErrBadRegister     = errors.New("destination is not a single letter")
	ErrBadOperand      = errors.New("operand is neither an integer nor a single letter")
)

// ParseError reports the first line that could not be decoded.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

// Unwrap returns the cause of the error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads one instruction per line from r using the default ISA. Blank
// lines and lines starting with # are skipped.
func Parse(r io.Reader) ([]instr.Instruction, error) {
	return DefaultISA().Parse(r)
}

// ParseString parses a program held in a string.
func ParseString(s string) ([]instr.Instruction, error) {
	return Parse(strings.NewReader(s))
}

// LoadProgramFile parses the program stored at path.
func LoadProgramFile(path string) ([]instr.Instruction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open program")
	}
	defer f.Close()

	prog, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}

	return prog, nil
}

// Parse reads one instruction per line from r.
func (isa *ISA) Parse(r io.Reader) ([]instr.Instruction, error) {
	var prog []instr.Instruction

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		inst, err := isa.decodeLine(text)
		if err != nil {
			return nil, errors.WithStack(&ParseError{
				Line: lineNo,
				Text: text,
				Err:  err,
			})
		}

		prog = append(prog, inst)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read program")
	}

	return prog, nil
}

func (isa *ISA) decodeLine(text string) (instr.Instruction, error) {
	fields := strings.Fields(text)

	info, ok := isa.lookup(fields[0])
	if !ok {
		return instr.Instruction{}, errors.Wrapf(ErrUnknownMnemonic, "%q", fields[0])
	}

	args := fields[1:]
	if len(args) != info.arity {
		return instr.Instruction{}, errors.Wrapf(ErrArity,
			"%s takes %d, got %d", fields[0], info.arity, len(args))
	}

	return info.decode(args)
}

// Format writes prog in text form, one instruction per line.
func Format(w io.Writer, prog []instr.Instruction) error {
	bw := bufio.NewWriter(w)

	for _, inst := range prog {
		if _, err := fmt.Fprintln(bw, inst.String()); err != nil {
			return errors.Wrap(err, "cannot write program")
		}
	}

	return errors.Wrap(bw.Flush(), "cannot write program")
}

// FormatString returns prog in text form.
func FormatString(prog []instr.Instruction) string {
	var sb strings.Builder
	for _, inst := range prog {
		sb.WriteString(inst.String())
		sb.WriteByte('\n')
	}

	return sb.String()
}
