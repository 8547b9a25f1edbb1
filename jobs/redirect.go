package jobs

import (
	"github.com/ishehadeh/rush/ast"
	"github.com/ishehadeh/rush/expand"
	"github.com/ishehadeh/rush/spawn"
	"github.com/ishehadeh/rush/variables"
)

// redirectToFdOps translates one parsed redirect into the fd
// operations spawn.Launcher understands, expanding the target word
// against store where needed.
//
// `<` defaults to fd 0; `>`/`>>` default to fd 1. RedirDup covers
// both `<&` and `>&` with no direction tag of its own, so it relies
// on the parser having already resolved an omitted left-hand fd to
// 0 or 1 depending on which form it saw; an unset Fd (-1) reaching
// here is treated as the `<&` default of 0.
func redirectToFdOps(r ast.Redirect, store *variables.Store) ([]spawn.FdOp, error) {
	fd := r.Fd

	switch r.Kind {
	case ast.RedirIn:
		if fd < 0 {
			fd = 0
		}
		target, err := expand.Word(r.Target, store)
		if err != nil {
			return nil, err
		}
		return []spawn.FdOp{spawn.OpenFd{Fd: fd, Path: string(target), Mode: spawn.Read}}, nil

	case ast.RedirOut:
		if fd < 0 {
			fd = 1
		}
		target, err := expand.Word(r.Target, store)
		if err != nil {
			return nil, err
		}
		return []spawn.FdOp{spawn.OpenFd{Fd: fd, Path: string(target), Mode: spawn.Write}}, nil

	case ast.RedirAppend:
		if fd < 0 {
			fd = 1
		}
		target, err := expand.Word(r.Target, store)
		if err != nil {
			return nil, err
		}
		return []spawn.FdOp{spawn.OpenFd{Fd: fd, Path: string(target), Mode: spawn.Append}}, nil

	case ast.RedirDup:
		if fd < 0 {
			fd = 0
		}
		return []spawn.FdOp{spawn.RedirectFd{Source: r.TargetFd, Target: fd}}, nil

	default:
		return nil, nil
	}
}
