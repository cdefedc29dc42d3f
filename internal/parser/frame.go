package parser

import "access-log-backend/internal/model"

// DefaultColumns names the record fields in output order.
var DefaultColumns = []string{"ip", "identd", "user", "date", "gmt", "action", "status", "size", "referrer", "browser"}

// NewFrame lays records out as rows. columns renames the default columns only when it
// has exactly one name per field; any other length is ignored and the defaults are kept.
func NewFrame(records []model.LogRecord, columns []string) *model.Frame {
	names := DefaultColumns
	if len(columns) == len(DefaultColumns) {
		names = columns
	}
	frame := &model.Frame{
		Columns: append([]string(nil), names...),
		Rows:    make([][]string, 0, len(records)),
	}
	for _, r := range records {
		frame.Rows = append(frame.Rows, r.Values())
	}
	return frame
}
