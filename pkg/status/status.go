// Package status provides SAI-style status codes for the ACL/UDF control
// plane: a positive success code, a family of negative error codes, and
// indexed variants (base - index) so a list-processing caller can report which
// attribute in a request failed.
package status

import (
	"errors"
	"fmt"

	"github.com/newtron-network/aclcore/pkg/util"
)

// Code is a SAI-style status code. Positive is success; negative is failure.
type Code int32

const (
	Success Code = 0

	InvalidParameter          Code = -1
	NoMemory                  Code = -2
	InvalidObjectID           Code = -3
	InvalidObjectType         Code = -4
	MandatoryAttributeMissing Code = -5
	ItemNotFound              Code = -6
	ObjectInUse               Code = -7
	TableFull                 Code = -8
	BufferOverflow            Code = -9
	Failure                   Code = -10
	NotSupported              Code = -11

	// Indexed bases — the actual code returned is base - index.
	UnknownAttributeBase  Code = -1000
	InvalidAttributeBase  Code = -2000
	InvalidAttrValueBase  Code = -3000
	AttrNotSupportedBase  Code = -4000
)

var names = map[Code]string{
	Success:                   "SUCCESS",
	InvalidParameter:          "INVALID_PARAMETER",
	NoMemory:                  "NO_MEMORY",
	InvalidObjectID:           "INVALID_OBJECT_ID",
	InvalidObjectType:         "INVALID_OBJECT_TYPE",
	MandatoryAttributeMissing: "MANDATORY_ATTRIBUTE_MISSING",
	ItemNotFound:              "ITEM_NOT_FOUND",
	ObjectInUse:               "OBJECT_IN_USE",
	TableFull:                 "TABLE_FULL",
	BufferOverflow:            "BUFFER_OVERFLOW",
	Failure:                   "FAILURE",
	NotSupported:              "NOT_SUPPORTED",

	UnknownAttributeBase: "UNKNOWN_ATTRIBUTE",
	InvalidAttributeBase: "INVALID_ATTRIBUTE",
	InvalidAttrValueBase: "INVALID_ATTR_VALUE",
	AttrNotSupportedBase: "ATTR_NOT_SUPPORTED",
}

// Indexed builds the base - index variant of a base code, e.g.
// Indexed(UnknownAttributeBase, 2) reports "attribute 2 is unknown".
func Indexed(base Code, index int) Code {
	return base - Code(index)
}

// baseOf returns the indexed family a code belongs to, and the index within
// it, for codes produced by Indexed. ok is false for non-indexed codes.
func baseOf(c Code) (base Code, index int, ok bool) {
	for _, b := range []Code{UnknownAttributeBase, InvalidAttributeBase, InvalidAttrValueBase, AttrNotSupportedBase} {
		if c <= b && c > b-1000 {
			return b, int(b - c), true
		}
	}
	return 0, 0, false
}

func (c Code) String() string {
	if base, idx, ok := baseOf(c); ok {
		return fmt.Sprintf("%s_%d", names[base], idx)
	}
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("STATUS(%d)", int32(c))
}

// IsSuccess reports whether c represents success.
func (c Code) IsSuccess() bool { return c >= Success }

// Sentinel errors so callers can use errors.Is regardless of list index. Each
// one wraps the nearest matching sentinel in pkg/util so that code written
// against the ambient util.ErrXxx family (the style the rest of this module
// uses for non-SAI errors) still matches these without knowing a SAI status
// code is involved.
var (
	ErrInvalidParameter  = fmt.Errorf("invalid parameter: %w", util.ErrValidationFailed)
	ErrNoMemory          = errors.New("no memory")
	ErrInvalidObjectID   = fmt.Errorf("invalid object id: %w", util.ErrValidationFailed)
	ErrInvalidObjectType = fmt.Errorf("invalid object type: %w", util.ErrValidationFailed)
	ErrMandatoryMissing  = fmt.Errorf("mandatory attribute missing: %w", util.ErrValidationFailed)
	ErrUnknownAttribute  = fmt.Errorf("unknown attribute: %w", util.ErrValidationFailed)
	ErrInvalidAttribute  = fmt.Errorf("invalid attribute: %w", util.ErrValidationFailed)
	ErrInvalidAttrValue  = fmt.Errorf("invalid attribute value: %w", util.ErrValidationFailed)
	ErrAttrNotSupported  = fmt.Errorf("attribute not supported for this operation: %w", util.ErrValidationFailed)
	ErrItemNotFound      = fmt.Errorf("item not found: %w", util.ErrNotFound)
	ErrObjectInUse       = fmt.Errorf("object in use: %w", util.ErrInUse)
	ErrTableFull         = errors.New("table full")
	ErrBufferOverflow    = errors.New("buffer overflow")
	ErrFailure           = fmt.Errorf("internal failure: %w", util.ErrPreconditionFailed)
	ErrNotSupported      = errors.New("not supported")
)

// Err wraps a Code as a Go error carrying both the code and a human message.
type Err struct {
	Code    Code
	Message string
}

func (e *Err) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Err) Unwrap() error {
	if base, _, ok := baseOf(e.Code); ok {
		switch base {
		case UnknownAttributeBase:
			return ErrUnknownAttribute
		case InvalidAttributeBase:
			return ErrInvalidAttribute
		case InvalidAttrValueBase:
			return ErrInvalidAttrValue
		case AttrNotSupportedBase:
			return ErrAttrNotSupported
		}
	}
	switch e.Code {
	case InvalidParameter:
		return ErrInvalidParameter
	case NoMemory:
		return ErrNoMemory
	case InvalidObjectID:
		return ErrInvalidObjectID
	case InvalidObjectType:
		return ErrInvalidObjectType
	case MandatoryAttributeMissing:
		return ErrMandatoryMissing
	case ItemNotFound:
		return ErrItemNotFound
	case ObjectInUse:
		return ErrObjectInUse
	case TableFull:
		return ErrTableFull
	case BufferOverflow:
		return ErrBufferOverflow
	case NotSupported:
		return ErrNotSupported
	default:
		return ErrFailure
	}
}

// New creates a *Err from a code and an optional formatted message.
func New(code Code, format string, args ...interface{}) *Err {
	return &Err{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the Code carried by err, if any. Returns Failure for a
// non-nil error that isn't a *Err, and Success for a nil error.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var se *Err
	if errors.As(err, &se) {
		return se.Code
	}
	return Failure
}
