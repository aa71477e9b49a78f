// Package book provides the Book value record.
package book

// UnknownAuthor is used when the upstream payload has no author.
const UnknownAuthor = "Unknown Author"

const linkBase = "https://hardcover.app/books/"

// Book represents the book currently being read.
type Book struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Pages  int    `json:"pages"`
	Image  string `json:"image"`
	Link   string `json:"link"`
}

// AuthorOrDefault returns name, or UnknownAuthor when name is empty.
func AuthorOrDefault(name string) string {
	if name == "" {
		return UnknownAuthor
	}
	return name
}

// Link returns the Hardcover page for a book slug.
func Link(slug string) string {
	return linkBase + slug
}
