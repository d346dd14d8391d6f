package object

import "errors"

// Sentinel errors for attribute operations. Callers that treat misuse as a
// bug can wrap these with Must helpers; the errors themselves stay
// recoverable so loaders can report and continue.
var (
	ErrAttributeUnknown       = errors.New("attribute unknown")
	ErrAttributeNotReadable   = errors.New("attribute not readable")
	ErrAttributeNotWritable   = errors.New("attribute not writable")
	ErrAttributeConstructOnly = errors.New("attribute is construct-only")
	ErrAttributeBadValue      = errors.New("attribute value rejected by checker")
	ErrTypeIDUnknown          = errors.New("type id unknown")
	ErrObjectDisposed         = errors.New("object is disposed")
)
