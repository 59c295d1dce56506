/*
Package errors implements custom error interfaces for the multisig ledger.

Every failure of a state transition is fatal to the enclosing operation and
is reported to the host as one of the root errors declared here, so that the
host can refuse to persist any change and forward a stable ABCI code to the
submitter.

If you want to register a custom error - use Register(code, description).
For reusing errors - use Errxxx.New and Errxxx.Newf, or Wrap/Wrapf.

There is also support for stacktraces. Create the error using
ErrXyz.New("...") or errors.Wrap(err, "...") at the point of creation to
ensure we attach a stacktrace. Only the first wrap records the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
