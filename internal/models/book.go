package models

import "fmt"

// Book is a single record of the catalog.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   *int   `json:"year"`
	Read   bool   `json:"read"`
}

// String returns a short human readable form, used in logs.
func (b Book) String() string {
	year := "?"
	if b.Year != nil {
		year = fmt.Sprint(*b.Year)
	}
	return fmt.Sprintf("#%d %q by %s (%s)", b.ID, b.Title, b.Author, year)
}

// BookPatch holds the fields of an update request. Nil pointers are left untouched.
// YearSet distinguishes an explicit "year": null from an absent key.
type BookPatch struct {
	Title   *string
	Author  *string
	YearSet bool
	Year    *int
	Read    *bool
}

// Apply overwrites the fields of b that are present in the patch.
func (p BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.YearSet {
		if p.Year == nil {
			b.Year = nil
		} else {
			y := *p.Year
			b.Year = &y
		}
	}
	if p.Read != nil {
		b.Read = *p.Read
	}
}

// IntPtr is a small helper for building books with a year.
func IntPtr(v int) *int {
	return &v
}
