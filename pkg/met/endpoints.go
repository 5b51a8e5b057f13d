package met

import (
	"fmt"
	"net/url"
)

// BaseURL is the public collection API root.
const BaseURL = "https://collectionapi.metmuseum.org/public/collection/v1"

// SearchURL builds the search endpoint URL for a query, restricted to
// objects that have images.
func SearchURL(base, query string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hasImages", "true")
	return fmt.Sprintf("%s/search?%s", base, params.Encode())
}

// ObjectURL builds the per-object lookup endpoint URL.
func ObjectURL(base string, objectID int) string {
	return fmt.Sprintf("%s/objects/%d", base, objectID)
}
