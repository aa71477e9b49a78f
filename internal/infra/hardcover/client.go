// Package hardcover provides a client for the Hardcover GraphQL API.
package hardcover

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/osa030/dashboard/internal/domain/book"
	"github.com/osa030/dashboard/internal/infra/upstream"
)

const (
	serviceName       = "hardcover"
	defaultGraphQLURL = "https://api.hardcover.app/v1/graphql"
)

// currentlyReadingQuery selects one book with user_books status 2 (currently reading).
const currentlyReadingQuery = `query CurrentlyReading($userId: Int!) {
  list_books(
    where: {user_books: {user_id: {_eq: $userId}, status_id: {_eq: 2}}}
    distinct_on: book_id
    limit: 1
    offset: 0
  ) {
    book {
      title
      pages
      slug
      image { url }
      contributions { author { name } }
    }
  }
}`

// Config represents Hardcover client configuration.
type Config struct {
	APIToken   string
	UserID     int
	GraphQLURL string
}

// Client is a Hardcover API client.
type Client struct {
	httpClient *http.Client
	url        string
	apiToken   string
	userID     int
}

// New creates a new Hardcover client on top of the shared httpClient.
func New(httpClient *http.Client, cfg Config) (*Client, error) {
	if cfg.APIToken == "" {
		return nil, errors.New("hardcover api token is required")
	}
	if cfg.UserID <= 0 {
		return nil, errors.Newf("hardcover user id must be positive, got %d", cfg.UserID)
	}
	if cfg.GraphQLURL == "" {
		cfg.GraphQLURL = defaultGraphQLURL
	}

	return &Client{
		httpClient: httpClient,
		url:        cfg.GraphQLURL,
		apiToken:   cfg.APIToken,
		userID:     cfg.UserID,
	}, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type currentlyReadingResponse struct {
	Data struct {
		ListBooks []struct {
			Book bookObject `json:"book"`
		} `json:"list_books"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type bookObject struct {
	Title string `json:"title"`
	Pages *int   `json:"pages"`
	Slug  string `json:"slug"`
	Image *struct {
		URL string `json:"url"`
	} `json:"image"`
	Contributions []struct {
		Author *struct {
			Name string `json:"name"`
		} `json:"author"`
	} `json:"contributions"`
}

// CurrentlyReading returns the book the user is reading.
// ok is false when nothing is being read.
func (c *Client) CurrentlyReading(ctx context.Context) (book.Book, bool, error) {
	payload, err := json.Marshal(graphQLRequest{
		Query:     currentlyReadingQuery,
		Variables: map[string]any{"userId": c.userID},
	})
	if err != nil {
		return book.Book{}, false, errors.Wrap(err, "failed to encode query")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return book.Book{}, false, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := upstream.Do(c.httpClient, serviceName, req)
	if err != nil {
		return book.Book{}, false, errors.Wrap(err, "failed to get currently reading book")
	}
	if resp.NoContent() {
		return book.Book{}, false, nil
	}

	var out currentlyReadingResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return book.Book{}, false, errors.Wrap(err, "failed to parse response")
	}
	// GraphQL reports query failures with 200 and an errors array
	if len(out.Errors) > 0 {
		return book.Book{}, false, &upstream.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
		}
	}
	if len(out.Data.ListBooks) == 0 {
		return book.Book{}, false, nil
	}

	return convertBook(out.Data.ListBooks[0].Book), true, nil
}

func convertBook(b bookObject) book.Book {
	var author string
	if len(b.Contributions) > 0 && b.Contributions[0].Author != nil {
		author = b.Contributions[0].Author.Name
	}

	var pages int
	if b.Pages != nil {
		pages = *b.Pages
	}

	var image string
	if b.Image != nil {
		image = b.Image.URL
	}

	return book.Book{
		Title:  b.Title,
		Author: book.AuthorOrDefault(author),
		Pages:  pages,
		Image:  image,
		Link:   book.Link(b.Slug),
	}
}
