package domain

// Reference is one entry of the fixed style catalog: an artwork whose style
// can be transferred onto the uploaded image.
type Reference struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
}

// ReferenceSelection records which catalog entry is currently active. At most
// one selection exists per session; selecting a new entry replaces it.
type ReferenceSelection struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
