package output

import (
	"fmt"
	"io"
)

// Writer writes CREATE TABLE statements as a SQL script.
type Writer struct {
	w           io.Writer
	transaction bool
}

// NewWriter creates a new script writer. With transaction set, the script
// is wrapped in BEGIN; / COMMIT;.
func NewWriter(w io.Writer, transaction bool) *Writer {
	return &Writer{w: w, transaction: transaction}
}

// WriteHeader writes the opening BEGIN when the script is transactional.
func (sw *Writer) WriteHeader() error {
	if !sw.transaction {
		return nil
	}
	_, err := fmt.Fprintln(sw.w, "BEGIN;")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(sw.w)
	return err
}

// WriteFooter writes the closing COMMIT when the script is transactional.
func (sw *Writer) WriteFooter() error {
	if !sw.transaction {
		return nil
	}
	_, err := fmt.Fprintln(sw.w, "COMMIT;")
	return err
}

// WriteStatement writes one statement preceded by a comment naming its table.
func (sw *Writer) WriteStatement(tableName, sql string) error {
	_, err := fmt.Fprintf(sw.w, "-- table: %s\n", CommentText(tableName))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(sw.w, sql)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(sw.w)
	return err
}
