package httpclient

import "net/url"

func encodeForm(fields map[string]string) string {
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	return values.Encode()
}
