package codecs

import (
	"context"
	"fmt"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/executor"

	"github.com/hile/soundforest/internal/shared"
)

// Command wraps one codec encoder or decoder command template.
//
// A template must contain exactly one FILE and one OUTFILE placeholder,
// replaced with the input and output paths when the command runs.
type Command struct {
	args []string
}

// NewCommand parses a codec command template.
func NewCommand(template string) (*Command, error) {
	args := strings.Fields(template)
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: empty command", shared.ErrCodecCommand)
	}

	cmd := &Command{args: args}
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (c *Command) validate() error {
	if count(c.args, "FILE") != 1 {
		return fmt.Errorf("%w: command requires exactly one FILE argument", shared.ErrCodecCommand)
	}
	if count(c.args, "OUTFILE") != 1 {
		return fmt.Errorf("%w: command requires exactly one OUTFILE argument", shared.ErrCodecCommand)
	}
	return nil
}

func count(args []string, needle string) int {
	n := 0
	for _, arg := range args {
		if arg == needle {
			n++
		}
	}
	return n
}

// String returns the command template as entered.
func (c *Command) String() string {
	return strings.Join(c.args, " ")
}

// Args returns the argument vector with FILE and OUTFILE substituted.
// The first element is the program name.
func (c *Command) Args(inputFile, outputFile string) []string {
	args := make([]string, len(c.args))
	for i, arg := range c.args {
		switch arg {
		case "FILE":
			args[i] = inputFile
		case "OUTFILE":
			args[i] = outputFile
		default:
			args[i] = arg
		}
	}
	return args
}

// Run executes the codec command with the given input and output files and
// returns the process exit code.
func (c *Command) Run(ctx context.Context, inputFile, outputFile string) (int, error) {
	args := c.Args(inputFile, outputFile)

	result, err := executor.New(args[0], args[1:]...).Execute(ctx)
	if err != nil {
		if result != nil && result.ExitCode != 0 {
			return result.ExitCode, fmt.Errorf("%w: %s: %s", shared.ErrExternalTool, args[0], result.Stderr)
		}
		return -1, fmt.Errorf("%w: %s: %v", shared.ErrExternalTool, args[0], err)
	}
	if result.ExitCode != 0 {
		return result.ExitCode, fmt.Errorf("%w: %s exited with %d", shared.ErrExternalTool, args[0], result.ExitCode)
	}
	return 0, nil
}
