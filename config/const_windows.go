package config

const (
	DEFAULT_ETC         = `C:\ProgramData\staffreview`
	DEFAULT_CREDENTIALS = DEFAULT_ETC + `\sheets\.google\credentials.json`
)
