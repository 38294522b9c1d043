package storage

// RowWriter is the interface any audit export target must satisfy.
type RowWriter interface {
	Write(rows []Row) error
	Close() error
}

var _ RowWriter = (*CSVWriter)(nil)
