package automaton

import (
	"io"
	"os"
	"os/exec"
	"strings"
)

// ----------------------------------------------------------------------------
// Büchi translator subprocess

// TranslatorFunc is the interface seam between the compiler and whatever actually
// produces automaton text for an LTL formula: either Translator.Translate (the real
// subprocess) or, in tests, a canned string reader. pkg/compiler only ever depends on
// this function type, never on Translator or os/exec directly.
type TranslatorFunc func(formula string) (string, error)

// Translator invokes the external Büchi translator (ltl2ba by default) as a blocking
// subprocess: argv ["-f", <formula>], automaton text captured from stdout. The exit code
// is ignored; only the captured content is inspected.
type Translator struct {
	BinaryPath string // Defaults to "ltl2ba" resolved on $PATH
}

// New returns a Translator invoking 'binaryPath', or "ltl2ba" if empty.
func New(binaryPath string) *Translator {
	if binaryPath == "" {
		binaryPath = "ltl2ba"
	}
	return &Translator{BinaryPath: binaryPath}
}

// Translate runs the translator on 'formula' and returns its raw stdout text.
//
// The temporary file used to exchange the automaton text is created before invocation
// and removed once parsing has consumed it; here that means the whole lifetime of this
// call, since Translate itself hands back the text for pkg/automaton's parser to consume
// immediately afterwards.
func (t *Translator) Translate(formula string) (string, error) {
	tmp, err := os.CreateTemp("", "ltl2pddl-ba-*.txt")
	if err != nil {
		return "", &TranslatorError{Reason: "cannot create exchange temp file: " + err.Error()}
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	cmd := exec.Command(t.BinaryPath, "-f", formula)
	cmd.Stdout = tmp
	cmd.Stderr = io.Discard
	_ = cmd.Run() // Exit code is ignored; only the captured file content matters

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", &TranslatorError{Reason: "cannot rewind exchange temp file: " + err.Error()}
	}
	raw, err := io.ReadAll(tmp)
	if err != nil {
		return "", &TranslatorError{Reason: "cannot read exchange temp file: " + err.Error()}
	}

	text := string(raw)
	if !strings.HasPrefix(strings.TrimSpace(text), "never {") {
		return "", &TranslatorError{Reason: "output does not begin with 'never {'"}
	}
	return text, nil
}
