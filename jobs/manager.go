// Package jobs implements the job manager: it walks a command tree,
// expands words, wires pipes and redirects, forks and execs children
// through the spawn package, and reaps their exit records.
//
// Grounded on ExecutionEnvironment::launch_job in
// original_source/src/lang/exec.rs and original_source/src/shell/exec.rs,
// restructured around Go's os/exec and golang.org/x/sync/errgroup the
// way mvdan.cc/sh/v3/interp/interp.go's bgShells errgroup.Group drives
// concurrent execution.
package jobs

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/ishehadeh/rush/ast"
	"github.com/ishehadeh/rush/expand"
	"github.com/ishehadeh/rush/spawn"
)

// JobID identifies a job within one Manager instance. Job ids are
// monotonic and never repeat.
type JobID int

// ExitRecord is the complete outcome of a reaped child process.
type ExitRecord struct {
	Pid        int
	Code       int
	CoreDumped bool
	Signal     syscall.Signal
	HasSignal  bool
}

// Status reports a job's current state.
type Status struct {
	Running bool
	Exit    ExitRecord
}

// Manager tracks running and completed jobs. Jobs are registered
// sequentially, but a pipeline's two sides are awaited concurrently on
// separate goroutines, so mutations to its maps are serialized with a
// mutex.
type Manager struct {
	mu        sync.Mutex
	nextID    JobID
	running   map[int]JobID
	procs     map[JobID]*exec.Cmd
	completed map[JobID]ExitRecord
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{
		running:   make(map[int]JobID),
		procs:     make(map[JobID]*exec.Cmd),
		completed: make(map[JobID]ExitRecord),
	}
}

func (m *Manager) register(proc *spawn.Process) JobID {
	m.mu.Lock()
	defer m.mu.Unlock()
	jid := m.nextID
	m.nextID++
	m.running[proc.Pid] = jid
	m.procs[jid] = proc.Cmd()
	return jid
}

// AwaitOne blocks until jid completes, returning its exit record. If
// jid already completed, the cached record is returned immediately.
func (m *Manager) AwaitOne(jid JobID) (ExitRecord, error) {
	m.mu.Lock()
	if rec, ok := m.completed[jid]; ok {
		m.mu.Unlock()
		return rec, nil
	}
	cmd, ok := m.procs[jid]
	m.mu.Unlock()
	if !ok {
		return ExitRecord{}, &InvalidJobIdError{Jid: jid}
	}

	waitErr := cmd.Wait()
	rec := exitRecordFromCmd(cmd, waitErr)

	m.mu.Lock()
	delete(m.running, cmd.Process.Pid)
	delete(m.procs, jid)
	m.completed[jid] = rec
	m.mu.Unlock()

	if waitErr != nil {
		if _, isExit := waitErr.(*exec.ExitError); !isExit {
			return rec, &WaitFailedError{Pid: cmd.Process.Pid, Err: waitErr}
		}
	}
	return rec, nil
}

// AwaitAll blocks until every job in jids has completed, returning
// their exit records in the same order.
func (m *Manager) AwaitAll(jids []JobID) ([]ExitRecord, error) {
	recs := make([]ExitRecord, len(jids))
	for i, jid := range jids {
		rec, err := m.AwaitOne(jid)
		if err != nil {
			return nil, err
		}
		recs[i] = rec
	}
	return recs, nil
}

// Status reports jid's current state.
func (m *Manager) Status(jid JobID) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.completed[jid]; ok {
		return Status{Running: false, Exit: rec}, nil
	}
	if _, ok := m.procs[jid]; ok {
		return Status{Running: true}, nil
	}
	return Status{}, &InvalidJobIdError{Jid: jid}
}

func exitRecordFromCmd(cmd *exec.Cmd, waitErr error) ExitRecord {
	rec := ExitRecord{Pid: cmd.Process.Pid}
	ps := cmd.ProcessState
	if ps == nil {
		rec.Code = 1
		return rec
	}
	if sysWs, ok := ps.Sys().(syscall.WaitStatus); ok {
		ws := unix.WaitStatus(sysWs)
		switch {
		case ws.Exited():
			rec.Code = ws.ExitStatus()
		case ws.Signaled():
			rec.HasSignal = true
			rec.Signal = syscall.Signal(ws.Signal())
			rec.Code = 128 + int(ws.Signal())
		}
		rec.CoreDumped = ws.CoreDump()
		return rec
	}
	rec.Code = ps.ExitCode()
	return rec
}

// awaiter blocks until a launched node's direct children have been
// reaped, returning the exit record this execution core reports for
// that node.
type awaiter func() (ExitRecord, error)

func immediate(rec ExitRecord) awaiter {
	return func() (ExitRecord, error) { return rec, nil }
}

// ioSet is the fd context threaded through a launch: the files
// occupying fd 0/1/2 in the eventual child, fds the child must close
// on its own behalf (pipe halves belonging to its siblings), and
// pending fd operations collected from enclosing FileRedirect
// wrappers, applied in declared order once a SimpleCommand is reached.
type ioSet struct {
	Stdin, Stdout, Stderr *os.File
	ExtraClose            []int
	ExtraFdOps            []spawn.FdOp
}

func rootIO() ioSet {
	return ioSet{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (io ioSet) withExtraClose(fd int) ioSet {
	next := io
	next.ExtraClose = append(append([]int{}, io.ExtraClose...), fd)
	return next
}

func (io ioSet) withFdOps(ops []spawn.FdOp) ioSet {
	next := io
	next.ExtraFdOps = append(append([]spawn.FdOp{}, io.ExtraFdOps...), ops...)
	return next
}

// Run launches cmd against ectx and blocks for its completion,
// returning the exit record of its logically-last direct child (or a
// synthesized code-0 record when it produces none).
func (m *Manager) Run(ctx context.Context, cmd ast.Command, ectx *Context) (ExitRecord, error) {
	aw, err := m.launch(ctx, cmd, ectx, rootIO())
	if err != nil {
		return ExitRecord{}, err
	}
	return aw()
}

func (m *Manager) launch(ctx context.Context, cmd ast.Command, ectx *Context, io ioSet) (awaiter, error) {
	switch n := cmd.(type) {
	case *ast.SimpleCommand:
		return m.launchSimple(ctx, n, ectx, io)
	case *ast.Pipeline:
		return m.launchPipeline(ctx, n, ectx, io)
	case *ast.ConditionalPair:
		return m.launchConditional(ctx, n, ectx, io)
	case *ast.FileRedirect:
		return m.launchFileRedirect(ctx, n, ectx, io)
	case *ast.Group:
		return m.launchGroup(ctx, n.Commands, ectx, io)
	case *ast.BraceGroup:
		return m.launchGroup(ctx, n.Commands, ectx.Clone(), io)
	case *ast.FuncDef:
		ectx.Funcs.Insert(n.Name, n.Body)
		return immediate(ExitRecord{Code: 0}), nil
	case ast.Comment:
		return immediate(ExitRecord{Code: 0}), nil
	default:
		// If/While/ForClause/CaseClause/Subshell: shape-only, no-op.
		return immediate(ExitRecord{Code: 0}), nil
	}
}

func (m *Manager) launchSimple(ctx context.Context, n *ast.SimpleCommand, ectx *Context, io ioSet) (awaiter, error) {
	if len(n.Words) == 0 {
		return nil, fmt.Errorf("simple command has no words")
	}

	nameBytes, err := expand.Word(n.Words[0], ectx.Vars)
	if err != nil {
		return nil, err
	}
	name := string(nameBytes)

	if body, ok := ectx.Funcs.Lookup(name); ok {
		return m.launch(ctx, body, ectx, io)
	}

	exe, err := resolveExecutable(name, ectx.Vars.ValueString("PATH"))
	if err != nil {
		return nil, err
	}

	argv := make([]string, len(n.Words))
	argv[0] = name
	for i := 1; i < len(n.Words); i++ {
		w, err := expand.Word(n.Words[i], ectx.Vars)
		if err != nil {
			return nil, err
		}
		argv[i] = string(w)
	}

	plan := spawn.Plan{Executable: exe, Argv: argv, WorkDir: ectx.Dir}
	if io.Stdin != nil {
		plan.FdOps = append(plan.FdOps, spawn.UseFile{Fd: 0, File: io.Stdin})
	}
	if io.Stdout != nil {
		plan.FdOps = append(plan.FdOps, spawn.UseFile{Fd: 1, File: io.Stdout})
	}
	if io.Stderr != nil {
		plan.FdOps = append(plan.FdOps, spawn.UseFile{Fd: 2, File: io.Stderr})
	}
	for _, fd := range io.ExtraClose {
		plan.FdOps = append(plan.FdOps, spawn.CloseFd{Fd: fd})
	}
	plan.FdOps = append(plan.FdOps, io.ExtraFdOps...)

	var launcher spawn.Launcher
	proc, err := launcher.Launch(plan)
	if err != nil {
		return nil, err
	}

	jid := m.register(proc)
	return func() (ExitRecord, error) { return m.AwaitOne(jid) }, nil
}

func (m *Manager) launchPipeline(ctx context.Context, n *ast.Pipeline, ectx *Context, io ioSet) (awaiter, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, &PipelineCreationFailedError{Err: err}
	}

	leftIO := io
	leftIO.Stdout = w
	leftIO = leftIO.withExtraClose(int(r.Fd()))

	rightIO := io
	rightIO.Stdin = r
	rightIO = rightIO.withExtraClose(int(w.Fd()))

	leftAwait, err := m.launch(ctx, n.From, ectx, leftIO)
	if err != nil {
		w.Close()
		r.Close()
		return nil, err
	}
	rightAwait, err := m.launch(ctx, n.To, ectx, rightIO)
	if err != nil {
		w.Close()
		r.Close()
		// The left side already spawned a real process; drain it
		// before surfacing the right side's launch failure so it is
		// never left running unwaited, mirroring how
		// original_source/src/lang/exec.rs's wait_for reaps every
		// exited child regardless of which jobs were explicitly
		// awaited.
		_, _ = leftAwait()
		return nil, err
	}

	var closeErr error
	if err := w.Close(); err != nil {
		closeErr = &FailedToClosePipeFileError{Fd: int(w.Fd()), Err: err}
	}
	if err := r.Close(); err != nil && closeErr == nil {
		closeErr = &FailedToClosePipeFileError{Fd: int(r.Fd()), Err: err}
	}

	return func() (ExitRecord, error) {
		var leftRec, rightRec ExitRecord
		g, _ := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			leftRec, err = leftAwait()
			return err
		})
		g.Go(func() error {
			var err error
			rightRec, err = rightAwait()
			return err
		})
		if err := g.Wait(); err != nil {
			return ExitRecord{}, err
		}
		if closeErr != nil {
			return ExitRecord{}, closeErr
		}
		_ = leftRec
		if n.Negate {
			if rightRec.Code == 0 {
				rightRec.Code = 1
			} else {
				rightRec.Code = 0
			}
		}
		return rightRec, nil
	}, nil
}

func (m *Manager) launchConditional(ctx context.Context, n *ast.ConditionalPair, ectx *Context, io ioSet) (awaiter, error) {
	leftAwait, err := m.launch(ctx, n.Left, ectx, io)
	if err != nil {
		return nil, err
	}
	leftRec, err := leftAwait()
	if err != nil {
		return nil, err
	}

	runRight := (n.Op == ast.AndIf && leftRec.Code == 0) || (n.Op == ast.OrIf && leftRec.Code != 0)
	if !runRight {
		return immediate(leftRec), nil
	}
	return m.launch(ctx, n.Right, ectx, io)
}

func (m *Manager) launchFileRedirect(ctx context.Context, n *ast.FileRedirect, ectx *Context, io ioSet) (awaiter, error) {
	var ops []spawn.FdOp
	for _, r := range n.Redirects {
		op, err := redirectToFdOps(r, ectx.Vars)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op...)
	}
	return m.launch(ctx, n.Inner, ectx, io.withFdOps(ops))
}

func (m *Manager) launchGroup(ctx context.Context, cmds []ast.Command, ectx *Context, io ioSet) (awaiter, error) {
	if len(cmds) == 0 {
		return immediate(ExitRecord{Code: 0}), nil
	}
	for _, c := range cmds[:len(cmds)-1] {
		aw, err := m.launch(ctx, c, ectx, io)
		if err != nil {
			return nil, err
		}
		if _, err := aw(); err != nil {
			return nil, err
		}
	}
	return m.launch(ctx, cmds[len(cmds)-1], ectx, io)
}
