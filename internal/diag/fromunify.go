package diag

import "github.com/ori-lang/oric/internal/unify"

// FromUnifyError adapts a unification failure to a Diagnostic, attaching
// span so the Sink can render a source location alongside the unifier's
// own Expected/Found/Ctx detail (carried verbatim in Message via Error()).
func FromUnifyError(err *unify.Error, span Span) *Diagnostic {
	return &Diagnostic{
		Code:     codeForUnifyKind(err.Kind),
		Severity: Error,
		Span:     span,
		Message:  err.Error(),
	}
}

func codeForUnifyKind(kind unify.ErrorKind) Code {
	switch kind {
	case unify.Mismatch:
		return Mismatch
	case unify.InfiniteType:
		return InfiniteType
	case unify.RigidMismatch:
		return RigidMismatch
	case unify.RigidRigidMismatch:
		return RigidRigidMismatch
	case unify.ArityMismatch:
		return ArityMismatch
	case unify.UninstantiatedGeneralized:
		return UninstantiatedGeneralized
	default:
		return Mismatch
	}
}
