package response

// Body of every failed request
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
