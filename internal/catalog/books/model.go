package books

// Book is the slice of catalog data the lending engine needs: identity plus
// enough metadata to present "rented by X" style answers. Catalog CRUD lives
// elsewhere and never goes through this package.
type Book struct {
	BookID int64
	Title  string
	Author string
}
