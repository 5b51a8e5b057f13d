package met

// SearchResult is the response of the collection search endpoint.
type SearchResult struct {
	Total     int   `json:"total"`
	ObjectIDs []int `json:"objectIDs"`
}

// Object is the raw API response for a single collection object. Only the
// fields the pipeline consumes are mapped; the rest of the payload is
// discarded on decode.
type Object struct {
	ObjectID       int      `json:"objectID"`
	Title          string   `json:"title"`
	Culture        string   `json:"culture"`
	Period         string   `json:"period"`
	ObjectDate     string   `json:"objectDate"`
	ObjectName     string   `json:"objectName"`
	Classification string   `json:"classification"`
	Medium         string   `json:"medium"`
	Dimensions     string   `json:"dimensions"`
	CreditLine     string   `json:"creditLine"`
	Country        string   `json:"country"`
	Region         string   `json:"region"`
	Tags           []string `json:"tags"`
	IsPublicDomain bool     `json:"isPublicDomain"`
	PrimaryImage   string   `json:"primaryImage"`
}

// HasImage reports whether the object carries a primary image URL.
func (o *Object) HasImage() bool {
	return o.PrimaryImage != ""
}
