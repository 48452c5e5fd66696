package config

const (
	yourGPTAPIKeyVar    = "YOURGPT_API_KEY"
	yourGPTWidgetUIDVar = "YOURGPT_WIDGET_UID"
	yourGPTBaseURLVar   = "YOURGPT_BASE_URL"

	defaultYourGPTBaseURL = "https://api.yourgpt.ai"
)

type ProviderConfig interface {
	GetYourGPTAPIKey() string
	GetYourGPTWidgetUID() string
	GetYourGPTBaseURL() string
}

type Provider struct{}

var _ ProviderConfig = Provider{}

func (Provider) GetYourGPTAPIKey() string {
	return GetEnv(yourGPTAPIKeyVar, "")
}

func (Provider) GetYourGPTWidgetUID() string {
	return GetEnv(yourGPTWidgetUIDVar, "")
}

func (Provider) GetYourGPTBaseURL() string {
	return GetEnv(yourGPTBaseURLVar, defaultYourGPTBaseURL)
}
