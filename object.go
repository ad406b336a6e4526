package pusula

import "fmt"

// ErrorKey is the reserved key that marks a decoded object as a
// producer-side failure.
const ErrorKey = "error"

// TransportErrorCode is the error value of objects synthesized for
// transport failures.
const TransportErrorCode = "Hata"

// Object is an untyped JSON object decoded from the response stream.
type Object map[string]any

// IsError reports whether the object carries a truthy error key.
// Truthiness follows JSON producer conventions: null, false, 0 and ""
// do not mark an error.
func (o Object) IsError() bool {
	v, ok := o[ErrorKey]
	if !ok {
		return false
	}
	return truthy(v)
}

// Code returns the error value as a string, or "" if absent.
func (o Object) Code() string {
	return o.str(ErrorKey)
}

// Message returns the conventional message key, or "" if absent.
func (o Object) Message() string {
	return o.str("message")
}

// Details returns the conventional details key, or "" if absent.
func (o Object) Details() string {
	return o.str("details")
}

func (o Object) str(key string) string {
	v, ok := o[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && x == x
	case string:
		return x != ""
	default:
		return true
	}
}

// TransportError synthesizes the error object reported when the request
// could not be sent or the response body could not be read.
func TransportError(err error) Object {
	return Object{
		ErrorKey:  TransportErrorCode,
		"message": err.Error(),
	}
}
