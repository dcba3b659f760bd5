package process

import (
	"fmt"
	"strings"

	"github.com/termdeck/termdeck/internal/shared/id"
	"github.com/termdeck/termdeck/internal/shared/validate"
)

// shellQuote single-quotes a string for safe interpolation into a shell
// command line. Embedded single quotes are handled by ending the quote,
// emitting an escaped quote, and starting a new one.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// BuildResumeCommand constructs the argv that attaches a PTY session to
// an existing agent session: the shell enters the project directory
// (falling back to $HOME if it is gone) and execs the agent with the
// resume flag. Every interpolated value is validated here, before it can
// reach the shell-interpreted string.
func BuildResumeCommand(shell, agent, dir, sessionID string, extraArgs []string) ([]string, error) {
	if err := validate.Path(dir); err != nil {
		return nil, err
	}
	// The session ID lands inside a shell -c string; only well-formed
	// IDs are allowed through.
	if !id.IsValid(sessionID) {
		return nil, fmt.Errorf("malformed session id: %q", sessionID)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "cd %s 2>/dev/null || cd ~; exec %s --resume %s", shellQuote(dir), shellQuote(agent), sessionID)
	for _, arg := range extraArgs {
		sb.WriteByte(' ')
		sb.WriteString(shellQuote(arg))
	}

	return []string{shell, "-c", sb.String()}, nil
}

// BuildNewCommand constructs the argv for a fresh attached agent session
// in the caller's working directory. No shell is involved, so arguments
// pass through verbatim.
func BuildNewCommand(agent string, sessionID string, extraArgs []string) []string {
	args := append([]string{agent}, extraArgs...)
	return append(args, "--session-id", sessionID)
}
