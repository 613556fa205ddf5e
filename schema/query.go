package schema

// MetadataFilter is a single exact-match metadata constraint. The chromem
// backend supports only equality filters, so that is all we model.
type MetadataFilter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// QueryBundle carries a query string plus optional metadata filters.
type QueryBundle struct {
	QueryString string           `json:"query_string"`
	Filters     []MetadataFilter `json:"filters,omitempty"`
}

// VectorStoreQuery is a similarity search request against a vector store.
type VectorStoreQuery struct {
	Embedding []float32        `json:"embedding"`
	TopK      int              `json:"top_k"`
	Filters   []MetadataFilter `json:"filters,omitempty"`
}
