package media

type ExtractResponse struct {
	Text string `json:"text"`
}

type ExtractErrorResponse struct {
	Error string `json:"error"`
}
