package models

// Page is an opaque slice request supplied by the boundary. Limit <= 0 means
// no limit.
type Page struct {
	Offset int
	Limit  int
}
