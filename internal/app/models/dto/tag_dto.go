package dto

// TagListResponse represents tag suggestions for the autosuggest endpoint
type TagListResponse struct {
	Tags []TagResponse `json:"tags"`
}
