package scheduleRepo

// StorageUnavailableError signals that the persistence layer could not be
// reached or written. The failing call is rejected; existing records are
// untouched.
type StorageUnavailableError struct {
	Err error
}

func (e StorageUnavailableError) Error() string {
	return "notification storage unavailable: " + e.Err.Error()
}

func (e StorageUnavailableError) Unwrap() error {
	return e.Err
}
