package loggate

import "fmt"

// IsEnabled reports whether the record passed the severity gate when it was created.
func (r *Record) IsEnabled() bool {
	return r.enabled
}

// Severity returns the severity the record was created with.
func (r *Record) Severity() Severity {
	return r.origin.Severity
}

// Append streams the values into the record. Each value is rendered with
// fmt.Sprint and no separator is inserted between values.
// Appending to a disabled or closed record does nothing.
//
// Example:
//
//	rec := loggate.Log(loggate.WarningSeverity)
//	defer rec.Close()
//	rec.Append("queue depth ", depth, " exceeds ", limit)
func (r *Record) Append(v ...interface{}) *Record {
	if !r.enabled || r.closed || len(v) == 0 {
		return r
	}
	r.sink.Write(v...)
	return r
}

// Appendf formats according to a format specifier and streams the result into the record.
func (r *Record) Appendf(format string, args ...interface{}) *Record {
	if !r.enabled || r.closed {
		return r
	}
	r.sink.Write(fmt.Sprintf(format, args...))
	return r
}

// Close finalizes the record. The line is terminated if anything was written,
// and for FatalSeverity the process is terminated: Close never returns in that case.
// Closing a record more than once has no further effect.
func (r *Record) Close() {
	if r.closed {
		return
	}
	r.closed = true
	if r.sink != nil {
		r.sink.Close()
	}
}
