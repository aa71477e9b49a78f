package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorOrDefault(t *testing.T) {
	assert.Equal(t, "Ursula K. Le Guin", AuthorOrDefault("Ursula K. Le Guin"))
	assert.Equal(t, UnknownAuthor, AuthorOrDefault(""))
}

func TestLink(t *testing.T) {
	assert.Equal(t, "https://hardcover.app/books/the-dispossessed", Link("the-dispossessed"))
}
