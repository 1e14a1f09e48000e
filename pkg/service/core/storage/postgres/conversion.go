package postgres

// Converter turns a scanned row into its domain type.
type Converter[O any] interface {
	To() (O, error)
}

func From[I Converter[O], O any](i I) (O, error) {
	return i.To()
}
