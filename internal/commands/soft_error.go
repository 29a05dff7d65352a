package commands

// SoftError ends a command with a non-zero exit without logging an error;
// the command has already reported the outcome.
type SoftError struct {
}

func IsSoftError(err error) bool {
	_, isSoft := err.(SoftError)
	return isSoft
}

func MakeSoftError() SoftError {
	return SoftError{}
}

func (se SoftError) Error() string {
	return ""
}
