package config

const (
	DEFAULT_ETC         = "/usr/local/etc/com.github.staffreview"
	DEFAULT_CREDENTIALS = DEFAULT_ETC + "/sheets/.google/credentials.json"
)
