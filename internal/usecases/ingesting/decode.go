package ingesting

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
)

var transportEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// DecodeContents decodifica o conteúdo enviado pelo componente de upload.
// Aceita data URL ("data:text/csv;base64,<dados>") ou base64 puro.
func DecodeContents(contents string) ([]byte, error) {
	payload := strings.TrimSpace(contents)
	if payload == "" {
		return nil, errors.New("conteúdo vazio")
	}

	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, errors.New("data URL sem separador de conteúdo")
		}

		header, data := payload[len("data:"):comma], payload[comma+1:]
		if !strings.HasSuffix(header, ";base64") {
			text, err := url.PathUnescape(data)
			if err != nil {
				return nil, err
			}
			return []byte(text), nil
		}
		payload = data
	}

	var lastErr error
	for _, enc := range transportEncodings {
		decoded, err := enc.DecodeString(payload)
		if err == nil {
			return decoded, nil
		}
		lastErr = err
	}

	return nil, lastErr
}
