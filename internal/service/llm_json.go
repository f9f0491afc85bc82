package service

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The model is asked for bare JSON but routinely wraps it in markdown fences
// or leaves a trailing comma before a closing brace. cleanModelJSON undoes
// both before decoding; anything still unparseable is treated as "no result"
// by the callers, never as a fatal error.

var (
	fenceRe         = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n?(.*?)\\n?\\s*```$")
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
)

// cleanModelJSON strips markdown code fences and trailing commas from a raw
// model response
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if match := fenceRe.FindStringSubmatch(s); match != nil {
		s = strings.TrimSpace(match[1])
	}

	s = trailingCommaRe.ReplaceAllString(s, "$1")

	return s
}

// decodeModelJSON cleans and decodes a model response into out.
// ok=false means the response was not usable JSON.
func decodeModelJSON(raw string, out any) bool {
	cleaned := cleanModelJSON(raw)
	if cleaned == "" {
		return false
	}
	return json.Unmarshal([]byte(cleaned), out) == nil
}
