package pagination

const (
	// DefaultPageSize is the admin listing page size.
	DefaultPageSize = 20
	// MaxPageSize caps how many rows a page query can request.
	MaxPageSize = 100
)

// Page holds 1-based page inputs from controllers or services.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page number to >= 1 and applies default/max sizes.
func Normalize(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Number < 1 || p.Size <= 0 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// TotalPages returns ceil(total / size). Zero rows yield zero pages.
func (p Page) TotalPages(total int64) int {
	if total <= 0 || p.Size <= 0 {
		return 0
	}
	size := int64(p.Size)
	return int((total + size - 1) / size)
}
