package model

type FileOverview struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type StatEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type FollowRequestBody struct {
	Chord       string `json:"chord"`
	HowMany     int    `json:"how_many"`
	IgnoreFirst bool   `json:"ignore_first"`
}

type FollowResult struct {
	Chord string `json:"chord"`
	Count int    `json:"count"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
