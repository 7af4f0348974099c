package process

import (
	"regexp"
	"strings"

	"github.com/kbukum/savvy/errors"
)

// subcommandPattern matches arguments that open with a $(...) marker.
var subcommandPattern = regexp.MustCompile(`^\$\(.*\)`)

// Command is an argument vector. The first element is the program, resolved
// through PATH when it contains no separator.
type Command []string

// String joins the arguments with single spaces.
func (c Command) String() string {
	return strings.Join(c, " ")
}

// Program returns the first element, or "" for an empty command.
func (c Command) Program() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Validate rejects empty commands, empty arguments and arguments carrying an
// embedded $(...) subcommand. The returned error is an *errors.AppError with
// code INVALID_COMMAND.
func (c Command) Validate() error {
	if len(c) == 0 {
		return errors.EmptyArgument(c)
	}
	for _, arg := range c {
		if arg == "" {
			return errors.EmptyArgument(c)
		}
		if subcommandPattern.MatchString(arg) {
			return errors.Subcommand(arg, c)
		}
	}
	return nil
}
