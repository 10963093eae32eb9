package rest

type TranslateResponse struct {
	Key        string `json:"key"`
	Version    string `json:"version"`
	Translated string `json:"translated"`
}

type CapabilitiesResponse struct {
	Version      string          `json:"version"`
	Capabilities map[string]bool `json:"capabilities"`
}

type CapabilityResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Supported bool   `json:"supported"`
}

type TranslateJobConfRequest struct {
	Version string            `json:"version"`
	JobConf map[string]string `json:"jobconf"`
}

type TranslateJobConfResponse struct {
	Version string            `json:"version"`
	JobConf map[string]string `json:"jobconf"`
}

type CompareVersionsResponse struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Result int    `json:"result"` // -1, 0 or 1
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
