package logfields

import "go.uber.org/zap"

func URL(val string) zap.Field {
	return zap.String("http_url", val)
}

func StatusCode(val int) zap.Field {
	return zap.Int("http_response_code", val)
}

func Resource(val string) zap.Field {
	return zap.String("github.resource", val)
}
