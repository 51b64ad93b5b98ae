package common

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ExitErr is an error carrying process exit code.
type ExitErr struct {
	Code  int
	Cause error
}

func (x ExitErr) Error() string { return x.Cause.Error() }

func (x ExitErr) Unwrap() error { return x.Cause }

// Errf returns formatted error in errFmt format if err is not nil.
func Errf(errFmt string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf(errFmt, err)
}

// ExitOnErr writes error to os.Stderr and calls os.Exit with the code from
// ExitErr or 1 by default. Does nothing if err is nil.
func ExitOnErr(err error) {
	if err != nil {
		os.Exit(printErr(os.Stderr, err))
	}
}

func printErr(w io.Writer, err error) int {
	var e ExitErr
	if !errors.As(err, &e) {
		e.Code = 1
	}
	fmt.Fprintln(w, "Error:", err)
	return e.Code
}
