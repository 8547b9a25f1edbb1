package jobs

import "fmt"

// MissingExecutableError reports that name could not be resolved
// against PATH. Suggestion, when non-empty, names the PATH entry
// chosen by suggestExecutable.
type MissingExecutableError struct {
	Name       string
	Suggestion string
}

func (e *MissingExecutableError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: command not found (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("%s: command not found", e.Name)
}

// InvalidJobIdError reports a Status/AwaitOne/AwaitAll call against a
// job id this manager never issued.
type InvalidJobIdError struct {
	Jid JobID
}

func (e *InvalidJobIdError) Error() string {
	return fmt.Sprintf("invalid job id %d", e.Jid)
}

// PipelineCreationFailedError reports a failed os.Pipe call.
type PipelineCreationFailedError struct {
	Err error
}

func (e *PipelineCreationFailedError) Error() string {
	return fmt.Sprintf("failed to create pipeline: %v", e.Err)
}
func (e *PipelineCreationFailedError) Unwrap() error { return e.Err }

// FailedToClosePipeFileError reports a failed close of a pipe fd held
// by the parent.
type FailedToClosePipeFileError struct {
	Fd  int
	Err error
}

func (e *FailedToClosePipeFileError) Error() string {
	return fmt.Sprintf("failed to close pipe fd %d: %v", e.Fd, e.Err)
}
func (e *FailedToClosePipeFileError) Unwrap() error { return e.Err }

// WaitFailedError reports a failed wait(2) on a running child.
type WaitFailedError struct {
	Pid int
	Err error
}

func (e *WaitFailedError) Error() string {
	return fmt.Sprintf("wait failed for pid %d: %v", e.Pid, e.Err)
}
func (e *WaitFailedError) Unwrap() error { return e.Err }
