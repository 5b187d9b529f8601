package model

// APIResponse is the wire envelope: {"data": ...} on success and
// {"error": "..."} on failure.
type APIResponse struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Meta  *Meta  `json:"meta,omitempty"`
}

// RedirectResponse tells the client to navigate to login.
type RedirectResponse struct {
	Redirect string `json:"redirect"`
}

// NeedRefreshResponse tells the client to call the refresh endpoint and
// retry with a new access token.
type NeedRefreshResponse struct {
	NeedRefresh bool `json:"needRefresh"`
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type AuthData struct {
	AccessToken string `json:"accessToken"`
	FirstName   string `json:"fname"`
	LastName    string `json:"lname"`
}

type AccessTokenData struct {
	AccessToken string `json:"accessToken"`
}

type NameData struct {
	Name string `json:"name"`
}
