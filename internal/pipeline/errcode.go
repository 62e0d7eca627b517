// internal/pipeline/errcode.go
package pipeline

import "errors"

// errorCode extracts a best-effort uint16 code from an error without
// assuming concrete types. Errors that expose no code map to 1.
func errorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	var c interface{ Code() uint16 }
	if errors.As(err, &c) {
		return c.Code()
	}

	return 1
}
